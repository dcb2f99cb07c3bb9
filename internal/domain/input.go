package domain

// Request types for every mutating operation. Pointer fields on update inputs
// distinguish "absent" (nil, leave unchanged) from "present"; nullable columns
// use Optional so an explicit null clears them.
//
// Length limits follow the server schema columns; items_count is an INTEGER.

type CreateCategoryInput struct {
	Name string  `json:"name" validate:"required,max=50"`
	Icon *string `json:"icon" validate:"omitnil,max=50"`
}

type UpdateCategoryInput struct {
	Name *string          `json:"name" validate:"omitnil,min=1,max=50"`
	Icon Optional[string] `json:"icon" validate:"omitempty,max=50"`
}

type CreateProductInput struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Category string   `json:"category" validate:"required"`
	Image    *string  `json:"image"`
	Rating   *float64 `json:"rating"`
}

type UpdateProductInput struct {
	Name     *string          `json:"name" validate:"omitnil,min=1,max=100"`
	Price    *float64         `json:"price" validate:"omitnil,gte=0"`
	Category *string          `json:"category"`
	Image    Optional[string] `json:"image"`
	Rating   *float64         `json:"rating"`
}

type CreateAdInput struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description string  `json:"description" validate:"required"`
	Icon        *string `json:"icon"`
}

type UpdateAdInput struct {
	Title       *string          `json:"title" validate:"omitnil,min=1,max=100"`
	Description *string          `json:"description" validate:"omitnil,min=1"`
	Icon        Optional[string] `json:"icon"`
}

type CreateOfferInput struct {
	Title    string  `json:"title" validate:"required,max=100"`
	Discount string  `json:"discount" validate:"required,max=100"`
	Icon     *string `json:"icon"`
}

type UpdateOfferInput struct {
	Title    *string          `json:"title" validate:"omitnil,min=1,max=100"`
	Discount *string          `json:"discount" validate:"omitnil,min=1,max=100"`
	Icon     Optional[string] `json:"icon"`
}

type CreateOrderInput struct {
	TotalAmount *float64 `json:"total_amount" validate:"required,gte=0"`
	ItemsCount  *int     `json:"items_count" validate:"required,gte=0,lte=2147483647"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminInput is the credential stored for the admin account. bcrypt reads at
// most 72 bytes of the password.
type AdminInput struct {
	Username string  `json:"username" validate:"required,max=50"`
	Password string  `json:"password" validate:"required,max=72"`
	Email    *string `json:"email" validate:"omitnil,max=100"`
}
