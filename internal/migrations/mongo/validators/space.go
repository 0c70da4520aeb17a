package validators

import "go.mongodb.org/mongo-driver/bson"

var SpaceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"name", "location", "created_at"},
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"name":        text(1, 100),
			"location":    text(1, 200),
			"description": text(0, 500),
			"created_at":  date(),
		},
	},
}
