package validators

import "go.mongodb.org/mongo-driver/bson"

var MemberValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"nickname", "authority", "created_at"},
		"properties": bson.M{
			"_id":      bson.M{"bsonType": "objectId"},
			"nickname": text(1, 50),
			"authority": bson.M{
				"bsonType": "string",
				"enum":     []string{"USER", "ADMIN"},
			},
			"created_at": date(),
		},
	},
}
