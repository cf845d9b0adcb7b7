package dto

// OnboardOrganizationRequest creates an inventory organization with its cost
// organization and primary cost book.
type OnboardOrganizationRequest struct {
	Code string `json:"code" binding:"required,max=50"`
	Name string `json:"name" binding:"required,max=200"`
}
