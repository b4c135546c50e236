package dto

import "travelbook/internal/domain"

type OrderDTO struct {
	ID              string  `json:"id"`
	PlanID          string  `json:"planId"`
	Account         string  `json:"account"`
	PassengerName   string  `json:"passengerName"`
	PassengerPhone  string  `json:"passengerPhone"`
	NumOfPassengers int     `json:"numOfPassengers"`
	TotalAmount     float64 `json:"totalAmount"`
	Status          string  `json:"status"`
	OrderDate       string  `json:"orderDate"`
}

func FromOrder(o domain.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID,
		PlanID:          o.PlanID,
		Account:         o.Account,
		PassengerName:   o.PassengerName,
		PassengerPhone:  o.PassengerPhone,
		NumOfPassengers: o.NumOfPassengers,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		OrderDate:       domain.FormatDate(o.OrderDate),
	}
}

func FromOrders(orders []domain.Order) []OrderDTO {
	out := make([]OrderDTO, len(orders))
	for i, o := range orders {
		out[i] = FromOrder(o)
	}
	return out
}

func (d OrderDTO) ToDomain() (domain.Order, error) {
	date, err := parseDate("orderDate", d.OrderDate)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		ID:              d.ID,
		PlanID:          d.PlanID,
		Account:         d.Account,
		PassengerName:   d.PassengerName,
		PassengerPhone:  d.PassengerPhone,
		NumOfPassengers: d.NumOfPassengers,
		TotalAmount:     d.TotalAmount,
		Status:          d.Status,
		OrderDate:       date,
	}, nil
}

type PlaceOrderRequest struct {
	PlanID          string `json:"planId"`
	PassengerName   string `json:"passengerName"`
	PassengerPhone  string `json:"passengerPhone"`
	NumOfPassengers int    `json:"numOfPassengers"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
