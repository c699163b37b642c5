package events

import (
	"github.com/footballinvestment/lion-football-academy/pkg/models"
)

// Publisher offers typed publish helpers over the bus. A nil publisher is
// valid and drops everything, which keeps it optional in constructors.
type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	if p == nil {
		return nil
	}
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) AnalysisCompleted(teamID, analysisType string, result interface{}) {
	event := models.NewEvent(models.EventTypeAnalysisCompleted, teamID, "Analysis completed: "+analysisType).
		WithData(result)
	p.publish(event)
}

func (p *Publisher) NotificationEnqueued(teamID string, job *models.DeliveryJob) {
	event := models.NewEvent(models.EventTypeNotificationEnqueued, teamID, "Notification enqueued: "+string(job.Kind)).
		WithData(job)
	p.publish(event)
}

func (p *Publisher) DeliveryCompleted(job *models.DeliveryJob) {
	event := models.NewEvent(models.EventTypeDeliveryCompleted, "", "Delivery completed: "+string(job.Kind)).
		WithData(job)
	p.publish(event)
}

func (p *Publisher) DeliveryFailed(job *models.DeliveryJob, err error) {
	event := models.NewEvent(models.EventTypeDeliveryFailed, "", "Delivery failed: "+string(job.Kind)).
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{
			"job":   job,
			"error": err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) DeliveryStalled(jobID string) {
	event := models.NewEvent(models.EventTypeDeliveryStalled, "", "Delivery stalled, re-queued").
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{"job_id": jobID})
	p.publish(event)
}

func (p *Publisher) TriggerFired(name string, enqueued int) {
	event := models.NewEvent(models.EventTypeTriggerFired, "", "Trigger fired: "+name).
		WithData(map[string]interface{}{
			"trigger":  name,
			"enqueued": enqueued,
		})
	p.publish(event)
}

func (p *Publisher) TriggerFailed(name string, err error) {
	event := models.NewEvent(models.EventTypeTriggerFailed, "", "Trigger failed: "+name).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"trigger": name,
			"error":   err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) Alert(teamID, message string, severity models.EventSeverity, data interface{}) {
	event := models.NewEvent(models.EventTypeAlert, teamID, message).
		WithSeverity(severity).
		WithData(data)
	p.publish(event)
}

func (p *Publisher) Error(teamID, message string, err error) {
	event := models.NewEvent(models.EventTypeError, teamID, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{"error": err.Error()})
	p.publish(event)
}
