package dto

// CreateBrandRequest alta de una marca (solo ecosystem_admin).
type CreateBrandRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
	Role string `json:"role" validate:"required,oneof=standard ecosystem_admin"`
}

// CreateBrandResponse incluye el token en claro una única vez.
type CreateBrandResponse struct {
	BrandID  string `json:"brand_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	APIToken string `json:"api_token"`
	Message  string `json:"message"`
}

// CreateProductRequest alta de un producto bajo la marca autenticada.
type CreateProductRequest struct {
	Code string `json:"code" validate:"required,min=2,max=64"`
	Name string `json:"name" validate:"required,min=2,max=120"`
}

// CreateProductResponse incluye el token en claro una única vez.
type CreateProductResponse struct {
	ProductID    string `json:"product_id"`
	BrandID      string `json:"brand_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	ProductToken string `json:"product_token"`
}
