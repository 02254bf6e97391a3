package types

const (
	FilterDefaultLimit = 50
	FilterMaxLimit     = 200
)

// Filter is a basic limit/offset filter for list queries.
type Filter struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

func (f *Filter) GetLimit() int {
	if f == nil || f.Limit <= 0 {
		return FilterDefaultLimit
	}
	if f.Limit > FilterMaxLimit {
		return FilterMaxLimit
	}
	return f.Limit
}

func (f *Filter) GetOffset() int {
	if f == nil || f.Offset < 0 {
		return 0
	}
	return f.Offset
}
