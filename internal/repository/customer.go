package repository

import (
	"context"
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/freedesk/mailroom/interfaces"
	"github.com/freedesk/mailroom/internal/models"
	"github.com/freedesk/mailroom/internal/tracing"
	"github.com/freedesk/mailroom/internal/utils"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) interfaces.CustomerRepository {
	return &customerRepository{
		db: db,
	}
}

// GetOrCreateByEmail returns the customer for the sanitized address,
// creating one on first sight. Idempotent per address: a concurrent insert
// losing the unique-index race falls back to the stored row.
func (r *customerRepository) GetOrCreateByEmail(ctx context.Context, email string, name string) (*models.Customer, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "customerRepository.GetOrCreateByEmail")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		err := errors.New("customer email cannot be empty")
		tracing.TraceErr(span, err)
		return nil, err
	}
	span.SetTag("email", email)

	var customer models.Customer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tracing.TraceErr(span, err)
		return nil, err
	}

	customer = models.Customer{Email: email}
	customer.FirstName, customer.LastName = splitDisplayName(name)
	now := utils.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Customer
			if ferr := r.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		tracing.TraceErr(span, err)
		return nil, err
	}

	return &customer, nil
}

func splitDisplayName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}
