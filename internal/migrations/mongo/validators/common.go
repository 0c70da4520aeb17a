package validators

import "go.mongodb.org/mongo-driver/bson"

func hexID() bson.M {
	return bson.M{
		"bsonType":  "string",
		"minLength": 24,
		"maxLength": 24,
	}
}

func date() bson.M {
	return bson.M{"bsonType": "date"}
}

func text(minLength, maxLength int) bson.M {
	return bson.M{
		"bsonType":  "string",
		"minLength": minLength,
		"maxLength": maxLength,
	}
}
