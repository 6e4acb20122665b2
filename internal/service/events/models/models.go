package models

import (
	"time"

	"github.com/lumeo-app/booking-service/internal/domain"
	"github.com/lumeo-app/booking-service/pkg/timeslot"
)

// Request модели

// CreateEventRequest запрос на создание группового события
type CreateEventRequest struct {
	ProviderID  int64  `json:"providerId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	SessionDate     string `json:"sessionDate"` // "2026-03-15"
	StartTime       string `json:"startTime"`   // "10:00"
	DurationMinutes int    `json:"durationMinutes"`

	MaxParticipants int     `json:"maxParticipants"`
	PricePerPerson  float64 `json:"pricePerPerson"`

	IsPublic bool     `json:"isPublic"`
	Tags     []string `json:"tags,omitempty"`
}

// CancelEventRequest запрос на отмену события
type CancelEventRequest struct {
	ProviderID int64  `json:"providerId"`
	Reason     string `json:"reason,omitempty"`
}

// Response модели

// EventResponse ответ с данными события
type EventResponse struct {
	ID          int64  `json:"id"`
	ProviderID  int64  `json:"providerId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	SessionDate     string `json:"sessionDate"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`

	MaxParticipants     int     `json:"maxParticipants"`
	CurrentParticipants int     `json:"currentParticipants"`
	PricePerPerson      float64 `json:"pricePerPerson"`

	Status             string `json:"status"`
	LiveStreamRoomName string `json:"liveStreamRoomName,omitempty"`
	LiveStreamStatus   string `json:"liveStreamStatus"`

	IsPublic bool     `json:"isPublic"`
	Tags     []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EventListResponse ответ со списком событий
type EventListResponse struct {
	Events []EventResponse `json:"events"`
}

// Методы конвертации

// ToDomainEvent конвертирует запрос в domain модель
// Дата и время валидируются на уровне сервиса до вызова
func (r *CreateEventRequest) ToDomainEvent(date time.Time, start timeslot.TimeString) *domain.Event {
	return &domain.Event{
		ProviderID:          r.ProviderID,
		Title:               r.Title,
		Description:         r.Description,
		SessionDate:         date,
		StartTime:           start,
		DurationMinutes:     r.DurationMinutes,
		MaxParticipants:     r.MaxParticipants,
		CurrentParticipants: 0,
		PricePerPerson:      r.PricePerPerson,
		Status:              domain.EventActive,
		LiveStreamStatus:    domain.LiveStreamNotStarted,
		IsPublic:            r.IsPublic,
		Tags:                r.Tags,
	}
}

// FromDomainEvent конвертирует domain модель в DTO
func FromDomainEvent(e *domain.Event) *EventResponse {
	if e == nil {
		return nil
	}

	return &EventResponse{
		ID:                  e.ID,
		ProviderID:          e.ProviderID,
		Title:               e.Title,
		Description:         e.Description,
		SessionDate:         e.SessionDate.Format(domain.DateFormat),
		StartTime:           e.StartTime.String(),
		DurationMinutes:     e.DurationMinutes,
		MaxParticipants:     e.MaxParticipants,
		CurrentParticipants: e.CurrentParticipants,
		PricePerPerson:      e.PricePerPerson,
		Status:              string(e.Status),
		LiveStreamRoomName:  e.LiveStreamRoomName,
		LiveStreamStatus:    string(e.LiveStreamStatus),
		IsPublic:            e.IsPublic,
		Tags:                e.Tags,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

// FromDomainEventList конвертирует список domain моделей в DTO
func FromDomainEventList(events []*domain.Event) *EventListResponse {
	if events == nil {
		return &EventListResponse{
			Events: []EventResponse{},
		}
	}

	resp := &EventListResponse{
		Events: make([]EventResponse, len(events)),
	}

	for i, event := range events {
		if eventResp := FromDomainEvent(event); eventResp != nil {
			resp.Events[i] = *eventResp
		}
	}

	return resp
}
