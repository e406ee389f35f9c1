package console

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListReportsFilterQuery(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, true, []Report{}, "")
	}))
	defer server.Close()

	client := NewClient(server.URL, NewMemoryTokenStore())

	_, err := client.ListReports(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "/reports", gotPath)
	assert.Empty(t, gotQuery, "a nil filter adds no query string")

	_, err = client.ListReports(context.Background(), &ReportListFilter{
		DepartmentID: 4,
		Month:        7,
		Year:         2026,
		Status:       "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, "department_id=4&month=7&status=pending&year=2026", gotQuery)
}

func TestListBudgetsFilterQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, true, []Budget{}, "")
	}))
	defer server.Close()

	client := NewClient(server.URL, NewMemoryTokenStore())

	_, err := client.ListBudgets(context.Background(), &BudgetListFilter{
		DepartmentID: 2,
		FiscalYear:   "2082/83",
		Status:       "active",
	})
	require.NoError(t, err)
	assert.Equal(t, "department_id=2&fiscal_year=2082%2F83&status=active", gotQuery)

	// Partial filters only carry the set fields
	_, err = client.ListBudgets(context.Background(), &BudgetListFilter{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "status=completed", gotQuery)
}
