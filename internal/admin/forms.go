package admin

import "github.com/shopspring/decimal"

type CategoryForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description" validate:"max=500"`
	IsActive    bool   `form:"is_active"`
}

type MenuItemForm struct {
	CategoryID  int64           `form:"category_id" validate:"required,gt=0"`
	Name        string          `form:"name" validate:"required,max=150"`
	Description string          `form:"description" validate:"max=1000"`
	Price       decimal.Decimal `form:"price" validate:"gte=0"`
	IsAvailable bool            `form:"is_available"`
	// ImagePath is a local file uploaded with the item. Empty keeps the
	// current image on update.
	ImagePath string `form:"image" validate:"omitempty,file,image"`
}

type TableForm struct {
	Number   string `form:"table_number" validate:"required,max=20"`
	Capacity int    `form:"capacity" validate:"gte=1,lte=50"`
	Status   string `form:"status" validate:"omitempty,oneof=available occupied reserved"`
}

type UserForm struct {
	Name  string `form:"name" validate:"required,max=100"`
	Email string `form:"email" validate:"required,email"`
	Role  string `form:"role" validate:"required,oneof=admin cashier waiter chef"`
	// Password is required on create and optional on update.
	Password string `form:"password" validate:"omitempty,min=8"`
	IsActive bool   `form:"is_active"`
}

type PasswordForm struct {
	Current  string `form:"current_password"`
	Password string `form:"password" validate:"required,min=8"`
	Confirm  string `form:"password_confirmation" validate:"required,eqfield=Password"`
}
