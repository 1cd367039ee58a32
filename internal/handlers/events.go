package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tanawatq/vaccine_reservation/internal/mykafka"
)

const (
	userEventsTopic        = "user_events"
	reservationEventsTopic = "reservation_events"
)

// publish sends a domain event and only logs on failure: the write that
// triggered the event has already been committed.
func publish(c echo.Context, producer *mykafka.Producer, topic, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
