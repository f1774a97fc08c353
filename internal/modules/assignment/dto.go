package assignment

type AssignRequest struct {
	BookingID      string `json:"bookingId" binding:"required"`
	DecoratorEmail string `json:"decoratorEmail" binding:"required"`
}

type UpdateStatusRequest struct {
	ProjectStatus string `json:"projectStatus" binding:"required"`
}
