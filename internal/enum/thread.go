package enum

type ThreadType string

const (
	ThreadTypeCustomer ThreadType = "customer"
	ThreadTypeMessage  ThreadType = "message"
	ThreadTypeNote     ThreadType = "note"
)

func (t ThreadType) String() string {
	return string(t)
}

type Person string

const (
	PersonCustomer Person = "customer"
	PersonUser     Person = "user"
)

func (t Person) String() string {
	return string(t)
}

type SourceType string

const (
	SourceTypeEmail SourceType = "email"
	SourceTypeWeb   SourceType = "web"
)

func (t SourceType) String() string {
	return string(t)
}
