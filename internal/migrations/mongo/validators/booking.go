package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"full_name",
			"email",
			"phone_number",
			"destination",
			"package_title",
			"number_of_travelers",
			"start_date",
			"end_date",
			"status",
			"user_id",
			"package_id",
			"agency_id",
			"payment_id",
			"order_id",
			"amount",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 120,
			},

			"full_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
			},

			"phone_number": bson.M{
				"bsonType": "string",
			},

			"destination": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"package_title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"number_of_travelers": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  100,
			},

			"start_date": bson.M{
				"bsonType": "date",
			},

			"end_date": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"enum": []string{"pending", "confirmed", "cancelled", "completed"},
			},

			"user_id": bson.M{
				"bsonType": "string",
			},

			"package_id": bson.M{
				"bsonType": "string",
			},

			"agency_id": bson.M{
				"bsonType": "string",
			},

			"payment_id": bson.M{
				"bsonType": "string",
			},

			"order_id": bson.M{
				"bsonType": "string",
			},

			"amount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
