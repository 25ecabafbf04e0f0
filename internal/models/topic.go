package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// QuestionTopic is one node of the topic taxonomy: a broad field, an area
// within it, a general topic and the specific topic questions are tagged with.
type QuestionTopic struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Field            string             `json:"field" bson:"field"`
	FieldCode        string             `json:"field_code" bson:"field_code"`
	Area             string             `json:"area" bson:"area"`
	AreaCode         string             `json:"area_code" bson:"area_code"`
	GeneralTopic     string             `json:"general_topic" bson:"general_topic"`
	GeneralTopicCode string             `json:"general_topic_code" bson:"general_topic_code"`
	SpecificTopic    string             `json:"specific_topic" bson:"specific_topic"`
}

type QuestionTopicCreate struct {
	Field            string `json:"field" bson:"field"`
	FieldCode        string `json:"field_code" bson:"field_code"`
	Area             string `json:"area" bson:"area"`
	AreaCode         string `json:"area_code" bson:"area_code"`
	GeneralTopic     string `json:"general_topic" bson:"general_topic"`
	GeneralTopicCode string `json:"general_topic_code" bson:"general_topic_code"`
	SpecificTopic    string `json:"specific_topic" bson:"specific_topic"`
}

type QuestionTopicQuery struct {
	Page      int
	PageSize  int
	Search    string
	Field     string
	Area      string
	FieldCode string
	AreaCode  string
}

type QuestionTopicListResponse struct {
	Success  bool            `json:"success"`
	Data     []QuestionTopic `json:"data"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

type QuestionTopicResponse struct {
	Success bool          `json:"success"`
	Data    QuestionTopic `json:"data"`
}

type DistinctValuesResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
	Total   int      `json:"total"`
}
