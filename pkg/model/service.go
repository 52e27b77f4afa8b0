package model

import "go.mongodb.org/mongo-driver/bson"

// Service is a catalogue entry, returned verbatim.
type Service = bson.M

// ServiceSummaryFields are the only fields returned for a single service.
var ServiceSummaryFields = []string{"title", "img", "price"}
