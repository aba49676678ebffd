package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"institution_id",
			"service_id",
			"booking_type",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"institution_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"service_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"booking_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"queue",
					"appointment",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending",
					"confirmed",
					"checked_in",
					"completed",
					"cancelled",
					"no_show",
				},
			},

			"queue_number": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"scheduled_date": bson.M{
				"bsonType": "string",
				"pattern":  "^\\d{4}-\\d{2}-\\d{2}$",
			},

			"scheduled_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"estimated_wait_minutes": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"check_in_time": bson.M{
				"bsonType": "date",
			},

			"check_in_latitude": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  -90,
				"maximum":  90,
			},

			"check_in_longitude": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  -180,
				"maximum":  180,
			},

			"completed_at": bson.M{
				"bsonType": "date",
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
