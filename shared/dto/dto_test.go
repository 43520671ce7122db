package dto_test

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrium/shared/constant"
	"atrium/shared/dto"
	"atrium/shared/model"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "admin-1",
		ModifiedBy: "admin-2",
	})

	assert.Equal(t, createdAt.Format(constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, modifiedAt.Format(constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "admin-1", metadata.CreatedBy)
	assert.Equal(t, "admin-2", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name        string
		queryParams map[string]string
		useDefaults bool
		expected    dto.QueryParams
	}{
		{
			name: "all parameters present",
			queryParams: map[string]string{
				"page":     "2",
				"limit":    "20",
				"sort_by":  "name",
				"sort_dir": "ASC",
			},
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "name", SortDir: "ASC"},
		},
		{
			name:        "defaults applied when empty",
			useDefaults: true,
			expected:    dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults leaves zero values",
			expected: dto.QueryParams{},
		},
		{
			name:        "non-numeric page falls back to default",
			queryParams: map[string]string{"page": "first"},
			useDefaults: true,
			expected:    dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:        "non-positive values fall back to defaults",
			queryParams: map[string]string{"page": "0", "limit": "-10"},
			useDefaults: true,
			expected:    dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:        "partial parameters keep what was given",
			queryParams: map[string]string{"page": "3", "sort_by": "grid"},
			useDefaults: true,
			expected:    dto.QueryParams{Page: 3, Limit: constant.DefaultValueLimit, SortBy: "grid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse("http://example.com/v1/rooms/")
			require.NoError(t, err)

			query := u.Query()
			for key, value := range tt.queryParams {
				query.Set(key, value)
			}
			u.RawQuery = query.Encode()

			req, err := http.NewRequest(http.MethodGet, u.String(), nil)
			require.NoError(t, err)

			params := &dto.QueryParams{}
			params.FromRequest(req, tt.useDefaults)

			assert.Equal(t, tt.expected, *params)
		})
	}
}

func TestSortDirectionConstants(t *testing.T) {
	assert.Equal(t, "ASC", dto.SortDirAsc)
	assert.Equal(t, "DESC", dto.SortDirDesc)
}
