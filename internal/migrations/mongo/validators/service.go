package validators

import "go.mongodb.org/mongo-driver/bson"

var ServiceValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"institution_id",
			"name",
			"service_type",
			"duration_minutes",
			"is_active",
			"current_queue_position",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"institution_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"service_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"queue",
					"appointment",
					"both",
				},
			},

			"duration_minutes": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  480,
			},

			"price": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"max_queue_size": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"current_queue_position": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
