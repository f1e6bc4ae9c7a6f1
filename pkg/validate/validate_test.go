package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1,max=50"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
}

func TestStruct(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(&sample{Name: "a", Count: 3, Date: "2026-10-20"}))

	err := v.Struct(&sample{Count: 3, Date: "2026-10-20"})
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())

	err = v.Struct(&sample{Name: "a", Count: 51, Date: "2026-10-20"})
	require.Error(t, err)
	assert.Equal(t, "count must be at most 50", err.Error())

	err = v.Struct(&sample{Name: "a", Count: 0, Date: "2026-10-20"})
	require.Error(t, err)
	assert.Equal(t, "count must be at least 1", err.Error())

	err = v.Struct(&sample{Name: "a", Count: 1, Date: "20-10-2026"})
	require.Error(t, err)
	assert.Equal(t, "date must match 2006-01-02", err.Error())
}
