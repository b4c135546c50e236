package dto

import "travelbook/internal/domain"

type CommentDTO struct {
	ID      string `json:"id"`
	PlanID  string `json:"planId"`
	OrderID string `json:"orderId,omitempty"`
	Account string `json:"account,omitempty"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
	Date    string `json:"date"`
}

func FromComment(c domain.Comment) CommentDTO {
	return CommentDTO{
		ID:      c.ID,
		PlanID:  c.PlanID,
		OrderID: c.OrderID,
		Account: c.Account,
		Content: c.Content,
		Rating:  c.Rating,
		Date:    domain.FormatDate(c.Date),
	}
}

func FromComments(comments []domain.Comment) []CommentDTO {
	out := make([]CommentDTO, len(comments))
	for i, c := range comments {
		out[i] = FromComment(c)
	}
	return out
}

func (d CommentDTO) ToDomain() (domain.Comment, error) {
	date, err := parseDate("date", d.Date)
	if err != nil {
		return domain.Comment{}, err
	}
	return domain.Comment{
		ID:      d.ID,
		PlanID:  d.PlanID,
		OrderID: d.OrderID,
		Account: d.Account,
		Content: d.Content,
		Rating:  d.Rating,
		Date:    date,
	}, nil
}

type CreateCommentRequest struct {
	OrderID string `json:"orderId"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}
