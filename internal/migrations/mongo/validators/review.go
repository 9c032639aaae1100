package validators

import "go.mongodb.org/mongo-driver/bson"

var ReviewValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"package_id",
			"user_id",
			"user_name",
			"rating",
			"comment",
			"verified",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"package_id": bson.M{
				"bsonType": "string",
			},

			"user_id": bson.M{
				"bsonType": "string",
			},

			"user_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"user_photo": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"rating": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  5,
			},

			"title": bson.M{
				"bsonType":  "string",
				"maxLength": 200,
			},

			"comment": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 2000,
			},

			"booking_id": bson.M{
				"bsonType": "string",
			},

			"verified": bson.M{
				"bsonType": "bool",
			},

			"helpful": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
