package model

type TravelPackage struct {
	PackageID   string  `json:"packageId" bson:"package_id" validate:"required"`
	Title       string  `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Destination string  `json:"destination" bson:"destination" validate:"required,min=2,max=120"`
	AgencyID    string  `json:"agencyId" bson:"agency_id" validate:"required"`
	Price       float64 `json:"price" bson:"price" validate:"required,gt=0"`
	Rating      float64 `json:"rating" bson:"rating"`
	ReviewCount int64   `json:"reviewCount" bson:"review_count"`
}
