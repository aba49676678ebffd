package validators

import "go.mongodb.org/mongo-driver/bson"

var InstitutionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"institution_type",
			"address",
			"city",
			"country",
			"latitude",
			"longitude",
			"geofence_radius_meters",
			"opening_time",
			"closing_time",
			"working_days",
			"is_active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"institution_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"bank",
					"government",
					"healthcare",
					"retail",
					"restaurant",
					"salon",
					"other",
				},
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"country": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},

			"latitude": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  -90,
				"maximum":  90,
			},

			"longitude": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  -180,
				"maximum":  180,
			},

			"geofence_radius_meters": bson.M{
				"bsonType":         []string{"double", "int"},
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"opening_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"closing_time": bson.M{
				"bsonType": "string",
				"pattern":  "^([01][0-9]|2[0-3]):[0-5][0-9]$",
			},

			"working_days": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 7,
				"items": bson.M{
					"bsonType": "string",
					"enum": []string{
						"Sunday",
						"Monday",
						"Tuesday",
						"Wednesday",
						"Thursday",
						"Friday",
						"Saturday",
					},
				},
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"average_wait_time_minutes": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"current_queue_size": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
