package validators

import "go.mongodb.org/mongo-driver/bson"

var TravelPackageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"package_id",
			"title",
			"destination",
			"agency_id",
			"price",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"package_id": bson.M{
				"bsonType": "string",
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"destination": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"agency_id": bson.M{
				"bsonType": "string",
			},

			"price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"rating": bson.M{
				"bsonType": []string{"double", "int"},
				"minimum":  0,
				"maximum":  5,
			},

			"review_count": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
		},
	},
}
