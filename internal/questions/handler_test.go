package questions

import (
	"net/url"
	"testing"

	"github.com/iRyanRib/genem/internal/models"
)

func TestParseQuestionQuery_Defaults(t *testing.T) {
	q := parseQuestionQuery(url.Values{})

	if q.Page != 1 {
		t.Errorf("expected page 1, got %d", q.Page)
	}
	if q.PageSize != defaultPageSize {
		t.Errorf("expected default page size, got %d", q.PageSize)
	}
}

func TestParseQuestionQuery_Values(t *testing.T) {
	values := url.Values{}
	values.Set("page", "4")
	values.Set("pageSize", "50")
	values.Set("search", "globalização")
	values.Set("discipline", "ciencias-humanas")
	values.Set("year", "2020")

	q := parseQuestionQuery(values)
	if q.Page != 4 || q.PageSize != 50 {
		t.Errorf("unexpected pagination: page=%d pageSize=%d", q.Page, q.PageSize)
	}
	if q.Search != "globalização" {
		t.Errorf("unexpected search: %q", q.Search)
	}
	if q.Discipline != models.DisciplineCienciasHumanas {
		t.Errorf("unexpected discipline: %q", q.Discipline)
	}
	if q.Year != 2020 {
		t.Errorf("unexpected year: %d", q.Year)
	}
}

func TestPageSizeParam_AllResults(t *testing.T) {
	values := url.Values{}
	values.Set("pageSize", "-1")

	if got := pageSizeParam(values); got != -1 {
		t.Errorf("expected -1 to pass through, got %d", got)
	}
}

func TestPageSizeParam_Invalid(t *testing.T) {
	for _, bad := range []string{"0", "-5", "abc"} {
		values := url.Values{}
		values.Set("pageSize", bad)
		if got := pageSizeParam(values); got != defaultPageSize {
			t.Errorf("pageSize %q: expected default, got %d", bad, got)
		}
	}
}
