package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_ref",
			"property_id",
			"property_owner_id",
			"user_id",
			"check_in_time",
			"check_out_time",
			"seats",
			"total_amount",
			"booking_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_ref": bson.M{
				"bsonType":  "string",
				"minLength": 10,
				"maxLength": 40,
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"property_owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"check_in_time": bson.M{
				"bsonType": "date",
			},

			"check_out_time": bson.M{
				"bsonType": "date",
			},

			"seats": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  500,
			},

			"total_hours": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
			},

			"refund_amount": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
			},

			"booking_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"pending_payment",
					"confirmed",
					"checked_in",
					"checked_out",
					"completed",
					"cancelled",
					"no_show",
					"extended",
				},
			},

			"payment_details": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"status": bson.M{
						"bsonType": "string",
						"enum": []string{
							"pending",
							"completed",
							"failed",
							"refunded",
							"partially_refunded",
						},
					},
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

// BookingLockValidator keeps the advisory lock documents minimal: a string
// key and an expiry the TTL index reaps on.
var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"expires_at"},
		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"expires_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
