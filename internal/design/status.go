package design

// Vocabulario canónico de estados de pedidos personalizados.
const (
	StatusPendingReview  = "PENDING_REVIEW"
	StatusApproved       = "APPROVED"
	StatusAccepted       = "ACCEPTED" // alias legado de APPROVED
	StatusInDesign       = "IN_DESIGN"
	StatusInPrinting     = "IN_PRINTING"
	StatusReadyForPickup = "READY_FOR_PICKUP"
	StatusOutForDelivery = "OUT_FOR_DELIVERY"
	StatusDelivered      = "DELIVERED"
	StatusCancelled      = "CANCELLED" // terminal, fuera de la secuencia lineal
)

// CustomStatusSequence es la secuencia lineal de progreso de un pedido
// personalizado. CANCELLED queda afuera a propósito.
var CustomStatusSequence = []string{
	StatusPendingReview,
	StatusApproved,
	StatusInDesign,
	StatusInPrinting,
	StatusReadyForPickup,
	StatusOutForDelivery,
	StatusDelivered,
}

// NormalizeStatus resuelve los alias legados antes de cualquier búsqueda.
func NormalizeStatus(s string) string {
	if s == StatusAccepted {
		return StatusApproved
	}
	return s
}

// IsValidCustomStatus acepta la secuencia canónica, el alias legado y el
// terminal CANCELLED.
func IsValidCustomStatus(s string) bool {
	s = NormalizeStatus(s)
	if s == StatusCancelled {
		return true
	}
	return indexOf(CustomStatusSequence, s) >= 0
}

type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepUpcoming  StepState = "upcoming"
)

// ProgressStep es un paso de la vista de progreso que se muestra al cliente
// y al staff.
type ProgressStep struct {
	Status string    `json:"status"`
	State  StepState `json:"state"`
}

// classify arma la vista de progreso contra una secuencia dada. Un estado
// desconocido resuelve a índice -1: nada completado todavía.
func classify(sequence []string, current string) []ProgressStep {
	idx := indexOf(sequence, current)
	steps := make([]ProgressStep, len(sequence))
	for i, s := range sequence {
		state := StepUpcoming
		switch {
		case idx >= 0 && i < idx:
			state = StepCompleted
		case idx >= 0 && i == idx:
			state = StepCurrent
		}
		steps[i] = ProgressStep{Status: s, State: state}
	}
	return steps
}

// ClassifyCustomProgress clasifica el estado actual de un pedido
// personalizado contra la secuencia canónica.
func ClassifyCustomProgress(current string) []ProgressStep {
	return classify(CustomStatusSequence, NormalizeStatus(current))
}

// StandardStatusSequence es la secuencia del pipeline de pedidos comunes
// (no personalizados). Es independiente: nunca se cruza con la de
// personalizados.
var StandardStatusSequence = []string{
	"Pending",
	"Processing",
	"Shipped",
	"Delivered",
}

// standardAliases traduce el vocabulario nuevo en mayúsculas al legado que
// quedó guardado en los pedidos viejos.
var standardAliases = map[string]string{
	"PENDING":    "Pending",
	"PROCESSING": "Processing",
	"SHIPPED":    "Shipped",
	"IN_TRANSIT": "Shipped",
	"DELIVERED":  "Delivered",
	"CANCELED":   "Cancelled",
	"CANCELLED":  "Cancelled",
}

func NormalizeStandardStatus(s string) string {
	if mapped, ok := standardAliases[s]; ok {
		return mapped
	}
	return s
}

// ClassifyStandardProgress clasifica un pedido común con su propia tabla.
func ClassifyStandardProgress(current string) []ProgressStep {
	return classify(StandardStatusSequence, NormalizeStandardStatus(current))
}

func indexOf(seq []string, s string) int {
	for i, v := range seq {
		if v == s {
			return i
		}
	}
	return -1
}
