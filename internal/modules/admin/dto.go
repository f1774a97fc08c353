package admin

type MakeDecoratorRequest struct {
	Specialties []string `json:"specialties"`
}

type DecoratorStatus struct {
	Email       string `json:"email"`
	IsDecorator bool   `json:"isDecorator"`
	Active      bool   `json:"isActive"`
}
