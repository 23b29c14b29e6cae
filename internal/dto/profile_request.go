package dto

type UpdateProfileRequest struct {
	Bio    *string `json:"bio"`
	Gender *string `json:"gender"`
	DOB    *string `json:"dob"`
}

type ChangeInitialRequest struct {
	Initial string `json:"initial" binding:"required"`
}
