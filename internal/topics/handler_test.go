package topics

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/iRyanRib/genem/internal/models"
)

func TestBuildTopicFilter_Empty(t *testing.T) {
	if filter := buildTopicFilter(models.QuestionTopicQuery{}); len(filter) != 0 {
		t.Errorf("expected empty filter, got %v", filter)
	}
}

func TestBuildTopicFilter_Search(t *testing.T) {
	filter := buildTopicFilter(models.QuestionTopicQuery{
		Field:  "Matemática",
		Search: "funções",
	})

	if filter["field"] != "Matemática" {
		t.Errorf("unexpected field filter: %v", filter["field"])
	}
	clauses, ok := filter["$or"].([]bson.M)
	if !ok || len(clauses) != 2 {
		t.Fatalf("expected search over general and specific topic, got %v", filter["$or"])
	}
}

func TestValidateTopicCreate(t *testing.T) {
	valid := models.QuestionTopicCreate{
		Field:         "Ciências da Natureza",
		FieldCode:     "CN",
		Area:          "Biologia",
		AreaCode:      "CN-BIO",
		GeneralTopic:  "Ecologia",
		SpecificTopic: "Cadeias alimentares",
	}
	if err := validateTopicCreate(valid); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}

	missingField := valid
	missingField.Field = ""
	if err := validateTopicCreate(missingField); err == nil {
		t.Error("expected error for missing field")
	}

	missingSpecific := valid
	missingSpecific.SpecificTopic = "  "
	if err := validateTopicCreate(missingSpecific); err == nil {
		t.Error("expected error for missing specific topic")
	}
}

func TestDistinctFields_KnownLevels(t *testing.T) {
	for _, level := range []string{"fields", "areas"} {
		if _, ok := distinctFields[level]; !ok {
			t.Errorf("expected taxonomy level %q to be exposed", level)
		}
	}
	if _, ok := distinctFields["subjects"]; ok {
		t.Error("unexpected taxonomy level exposed")
	}
}
