package cron

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"k8s.io/client-go/kubernetes"

	"github.com/freedesk/mailroom/config"
	"github.com/freedesk/mailroom/interfaces"
	internal_config "github.com/freedesk/mailroom/internal/config"
	"github.com/freedesk/mailroom/internal/logger"
)

type mockKubernetesInterface struct {
	kubernetes.Interface
	mock.Mock
}

type stubFetcher struct {
	runs int
}

func (s *stubFetcher) Run(ctx context.Context) interfaces.RunResult {
	s.runs++
	return interfaces.RunResult{}
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func getConfig() *config.Config {
	return &config.Config{
		AppConfig: &internal_config.AppConfig{},
		Logger: &logger.Config{
			LogLevel: "info",
		},
	}
}

func TestNewCronManager(t *testing.T) {
	// Arrange
	cfg := getConfig()
	log := getLogger()
	k8s := &mockKubernetesInterface{}
	fetcher := &stubFetcher{}

	// Act
	cm := NewCronManager(cfg, log, k8s, fetcher)

	// Assert
	assert.NotNil(t, cm)
	assert.Equal(t, cfg, cm.cfg)
	assert.Equal(t, log, cm.log)
	assert.Equal(t, k8s, cm.k8s)
	assert.NotNil(t, cm.jobIDs)
}

func TestCronManager_StartCronRegistersJobs(t *testing.T) {
	os.Setenv("CRON_SCHEDULE_HEARTBEAT", "0 * * * * *")
	os.Setenv("CRON_SCHEDULE_FETCH_EMAILS", "0 */2 * * * *")
	defer os.Unsetenv("CRON_SCHEDULE_HEARTBEAT")
	defer os.Unsetenv("CRON_SCHEDULE_FETCH_EMAILS")

	cm := NewCronManager(getConfig(), getLogger(), nil, &stubFetcher{})

	cm.StartCron()
	defer cm.Stop()

	assert.NotNil(t, cm.cron)
	assert.Contains(t, cm.jobIDs, "heartbeat")
	assert.Contains(t, cm.jobIDs, "fetch_emails")
}

func TestCronManager_FetchEmailsInvokesFetcher(t *testing.T) {
	fetcher := &stubFetcher{}
	cm := NewCronManager(getConfig(), getLogger(), nil, fetcher)

	cm.fetchEmails()

	assert.Equal(t, 1, fetcher.runs)
}
