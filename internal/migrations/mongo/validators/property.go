package validators

import "go.mongodb.org/mongo-driver/bson"

var PropertyValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"name",
			"property_status",
			"seating_capacity",
			"pricing",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"property_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"active",
					"inactive",
					"maintenance",
				},
			},

			"seating_capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  500,
			},

			"unavailable_dates": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"pattern":  `^\d{4}-\d{2}-\d{2}$`,
				},
			},

			"booking_rules": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"allowed_time_slots": bson.M{
						"bsonType": "array",
						"items": bson.M{
							"bsonType": "object",
							"required": []string{"day", "start_time", "end_time"},
							"properties": bson.M{
								"day": bson.M{
									"bsonType": "string",
									"enum": []string{
										"Sunday", "Monday", "Tuesday", "Wednesday",
										"Thursday", "Friday", "Saturday",
									},
								},
								"start_time": bson.M{
									"bsonType": "string",
									"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]$`,
								},
								"end_time": bson.M{
									"bsonType": "string",
									"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]$`,
								},
							},
						},
					},
					"checkout_grace_period_min": bson.M{
						"bsonType": "int",
						"minimum":  0,
						"maximum":  240,
					},
				},
			},

			"pricing": bson.M{
				"bsonType": "object",
				"required": []string{"hourly_rate"},
				"properties": bson.M{
					"hourly_rate": bson.M{
						"bsonType": []string{"double", "int"},
						"minimum":  0,
					},
					"overtime_hourly_rate": bson.M{
						"bsonType": []string{"double", "int"},
						"minimum":  0,
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
