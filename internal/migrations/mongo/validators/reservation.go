package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"member_id",
			"space_id",
			"start_time",
			"end_time",
			"created_at",
		},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":         bson.M{"bsonType": "objectId"},
			"member_id":   hexID(),
			"space_id":    hexID(),
			"start_time":  date(),
			"end_time":    date(),
			"description": text(0, 100),
			"created_at":  date(),
			"updated_at":  date(),
		},
	},
	// A stored interval is never empty or inverted.
	"$expr": bson.M{"$lt": []string{"$start_time", "$end_time"}},
}

var ReservationLogValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"reservation_id",
			"member_nickname",
			"space_name",
			"space_location",
			"reserved_time",
			"state",
			"created_at",
		},
		"properties": bson.M{
			"_id":             bson.M{"bsonType": "objectId"},
			"reservation_id":  hexID(),
			"member_nickname": bson.M{"bsonType": "string"},
			"space_name":      bson.M{"bsonType": "string"},
			"space_location":  bson.M{"bsonType": "string"},
			"reserved_time":   bson.M{"bsonType": "string"},
			"state": bson.M{
				"bsonType": "string",
				"enum":     []string{"RESERVE", "CANCEL"},
			},
			"created_at": date(),
		},
	},
}

var SlotClaimValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"space_id", "reservation_id", "slot_start", "created_at"},
		"properties": bson.M{
			"_id":            bson.M{"bsonType": "string"},
			"space_id":       hexID(),
			"reservation_id": hexID(),
			"slot_start":     date(),
			"created_at":     date(),
		},
	},
}
