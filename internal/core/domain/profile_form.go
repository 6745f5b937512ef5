package domain

// EditProfileForm is the user-editable part of a profile.
type EditProfileForm struct {
	Name  string `json:"name" validate:"required,min=2,max=50,personname"`
	Email string `json:"email" validate:"required,email,max=100"`
}

var editProfileMessages = messageTable{
	"name": {
		"required":   "Name is required",
		"min":        "Name must be at least 2 characters",
		"max":        "Name must be less than 50 characters",
		"personname": "Name can only contain letters, spaces, and accents",
	},
	"email": {
		"required": "Email is required",
		"email":    "Please enter a valid email address",
		"max":      "Email must be less than 100 characters",
	},
}

// ValidateEditProfileForm checks form against the edit-profile rules. On
// failure it returns a *ValidationError with one message per invalid field.
func ValidateEditProfileForm(form EditProfileForm) (EditProfileForm, error) {
	if err := validateStruct(form, editProfileMessages); err != nil {
		return EditProfileForm{}, err
	}
	return form, nil
}
