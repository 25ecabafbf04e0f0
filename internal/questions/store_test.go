package questions

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/iRyanRib/genem/internal/models"
)

func TestBuildQuestionFilter_Empty(t *testing.T) {
	filter := buildQuestionFilter(models.QuestionQuery{})
	if len(filter) != 0 {
		t.Errorf("expected empty filter, got %v", filter)
	}
}

func TestBuildQuestionFilter_Fields(t *testing.T) {
	filter := buildQuestionFilter(models.QuestionQuery{
		Discipline: models.DisciplineMatematica,
		Year:       2019,
		Index:      42,
	})

	if filter["discipline"] != models.DisciplineMatematica {
		t.Errorf("unexpected discipline filter: %v", filter["discipline"])
	}
	if filter["year"] != 2019 {
		t.Errorf("unexpected year filter: %v", filter["year"])
	}
	if filter["index"] != 42 {
		t.Errorf("unexpected index filter: %v", filter["index"])
	}
	if _, ok := filter["$or"]; ok {
		t.Error("expected no search clause without a search term")
	}
}

func TestBuildQuestionFilter_Search(t *testing.T) {
	filter := buildQuestionFilter(models.QuestionQuery{Search: "fotossíntese"})

	clauses, ok := filter["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected $or clause, got %v", filter)
	}
	if len(clauses) != 3 {
		t.Errorf("expected search over 3 fields, got %d", len(clauses))
	}
	regex, ok := clauses[0]["title"].(bson.M)
	if !ok || regex["$regex"] != "fotossíntese" || regex["$options"] != "i" {
		t.Errorf("expected case-insensitive title regex, got %v", clauses[0])
	}
}

func TestBuildGeneratedFilter_Fields(t *testing.T) {
	filter := buildGeneratedFilter(models.GeneratedQuestionQuery{
		User:             "user-123",
		SourceQuestionID: "64b1f0a2c3d4e5f601234567",
	})

	if filter["user"] != "user-123" {
		t.Errorf("unexpected user filter: %v", filter["user"])
	}
	if filter["source_question_id"] != "64b1f0a2c3d4e5f601234567" {
		t.Errorf("unexpected source filter: %v", filter["source_question_id"])
	}
}

func TestPageOptions_Pagination(t *testing.T) {
	opts := pageOptions(3, 25, bson.D{{Key: "index", Value: 1}})

	if opts.Skip == nil || *opts.Skip != 50 {
		t.Errorf("expected skip 50, got %v", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 25 {
		t.Errorf("expected limit 25, got %v", opts.Limit)
	}
}

func TestPageOptions_FullResultSet(t *testing.T) {
	opts := pageOptions(1, -1, bson.D{{Key: "index", Value: 1}})

	if opts.Skip != nil {
		t.Errorf("expected no skip for pageSize -1, got %v", *opts.Skip)
	}
	if opts.Limit != nil {
		t.Errorf("expected no limit for pageSize -1, got %v", *opts.Limit)
	}
}

func TestPageOptions_PageDefaultsToFirst(t *testing.T) {
	opts := pageOptions(0, 10, bson.D{{Key: "index", Value: 1}})

	if opts.Skip == nil || *opts.Skip != 0 {
		t.Errorf("expected skip 0 for page 0, got %v", opts.Skip)
	}
}
