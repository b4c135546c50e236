package dto

import "travelbook/internal/domain"

type CredentialsRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Account string `json:"account"`
	Role    string `json:"role"`
	Token   string `json:"token,omitempty"`
}

type VerifyRequest struct {
	Secret string `json:"secret"`
}

func FromAccount(a domain.Account) LoginResponse {
	return LoginResponse{Account: a.Name, Role: string(a.Role)}
}
