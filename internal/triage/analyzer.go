// Package triage suggests a priority and an advisory for new tickets from
// keywords in the description. Results are hints; ticket creation works
// without them.
package triage

import (
	"strings"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
)

// Suggestion is the heuristic's output.
type Suggestion struct {
	Priority      domain.TicketPriority
	Message       string
	EstimatedTime string
	Tips          []string
}

// Advisory flattens the suggestion into the text stored on the ticket.
func (s Suggestion) Advisory() string {
	var b strings.Builder
	b.WriteString(s.Message)
	if s.EstimatedTime != "" {
		b.WriteString("\nTiempo estimado: ")
		b.WriteString(s.EstimatedTime)
	}
	for _, tip := range s.Tips {
		b.WriteString("\n- ")
		b.WriteString(tip)
	}
	return b.String()
}

// Analyzer produces a suggestion for a ticket description.
type Analyzer interface {
	Analyze(description string, category domain.Category) Suggestion
}

type categoryResponse struct {
	message       string
	estimatedTime string
	tips          []string
}

var responses = map[domain.Category]categoryResponse{
	domain.CategoryEmailPass: {
		message:       "Hemos recibido tu solicitud de recuperación de contraseña de correo institucional. Nuestro equipo de CiberSeguridad revisará tu caso y te contactará a través de tu correo personal registrado.",
		estimatedTime: "24-48 horas",
		tips: []string{
			"Verifica que tengas acceso a tu correo personal registrado",
			"Ten a mano tu número de matrícula para verificación",
			"Si es urgente, puedes acudir presencialmente al Departamento de TI",
		},
	},
	domain.CategorySigeiPass: {
		message:       "Tu solicitud de recuperación de contraseña SIGEI ha sido registrada exitosamente. El equipo de Tecnología IT procesará tu caso en breve.",
		estimatedTime: "24-48 horas",
		tips: []string{
			"Asegúrate de tener tu cédula o pasaporte disponible",
			"La nueva contraseña se enviará a tu correo institucional",
			"Si no tienes acceso al correo, indica esto en tu solicitud",
		},
	},
	domain.CategoryVirtualPass: {
		message:       "Hemos registrado tu solicitud relacionada con la Plataforma Virtual. El Departamento de Tecnología Educativa (DTE) atenderá tu caso.",
		estimatedTime: "24-48 horas",
		tips: []string{
			"Intenta primero la opción \"Olvidé mi contraseña\" en la plataforma",
			"Verifica que estés usando el enlace correcto de la plataforma",
			"Ten preparado el nombre exacto de tus cursos activos",
		},
	},
	domain.CategoryAcademicRequest: {
		message:       "Tu solicitud académica ha sido recibida y será evaluada por el departamento correspondiente. Te mantendremos informado sobre el progreso.",
		estimatedTime: "3-5 días hábiles",
		tips: []string{
			"Adjunta cualquier documento de soporte si es necesario",
			"Incluye tu número de matrícula en la descripción",
			"Especifica claramente el tipo de solicitud",
		},
	},
	domain.CategoryRedes: {
		message:       "Tu reporte de problemas con la red ha sido registrado. El equipo de Operaciones TICs investigará el problema.",
		estimatedTime: "12-24 horas",
		tips: []string{
			"Indica la ubicación exacta donde experimentas el problema",
			"Menciona si otros estudiantes tienen el mismo problema",
			"Verifica si el problema es con WiFi o cable de red",
		},
	},
	domain.CategoryEquipos: {
		message:       "Tu solicitud sobre equipos y hardware ha sido recibida. El equipo de Operaciones TICs revisará tu caso.",
		estimatedTime: "24-72 horas",
		tips: []string{
			"Describe el problema específico del equipo",
			"Indica el número de laboratorio o ubicación del equipo",
			"Menciona si el equipo muestra algún mensaje de error",
		},
	},
	domain.CategorySoftware: {
		message:       "Tu solicitud de software ha sido registrada. El equipo de Tecnología IT atenderá tu caso.",
		estimatedTime: "24-48 horas",
		tips: []string{
			"Especifica el nombre y versión del software necesario",
			"Indica para qué materia o proyecto lo necesitas",
			"Verifica si ya está disponible en los laboratorios",
		},
	},
	domain.CategoryOther: {
		message:       "Tu solicitud ha sido registrada en nuestro sistema. Un miembro de nuestro equipo de soporte revisará tu caso y te contactará pronto.",
		estimatedTime: "24-72 horas",
		tips: []string{
			"Proporciona la mayor cantidad de detalles posible",
			"Si tienes capturas de pantalla del problema, descríbelas",
			"Indica el mejor horario para contactarte",
		},
	},
}

var urgentKeywords = []string{
	"urgente", "emergencia", "examen", "hoy", "ahora", "inmediato", "prueba", "entrega",
	"deadline", "fecha límite", "bloqueo", "bloqueado", "no puedo entrar", "acceso denegado",
	"crítico", "importante",
}

var lowPriorityKeywords = []string{
	"cuando puedan", "sin prisa", "consulta", "pregunta", "información", "duda",
	"orientación", "ayuda general",
}

// KeywordAnalyzer is the default heuristic. Matching is plain substring on
// the lower-cased description; urgent keywords win over low-priority ones.
type KeywordAnalyzer struct{}

// NewKeywordAnalyzer returns the default analyzer.
func NewKeywordAnalyzer() KeywordAnalyzer {
	return KeywordAnalyzer{}
}

func (KeywordAnalyzer) Analyze(description string, category domain.Category) Suggestion {
	base, ok := responses[category]
	if !ok {
		base = responses[domain.CategoryOther]
	}
	s := Suggestion{
		Priority:      domain.TicketPriorityMedium,
		Message:       base.message,
		EstimatedTime: base.estimatedTime,
		Tips:          append([]string(nil), base.tips...),
	}

	lower := strings.ToLower(description)
	switch {
	case containsAny(lower, urgentKeywords):
		s.Priority = domain.TicketPriorityHigh
		s.EstimatedTime = "4-12 horas"
		s.Message = "PRIORIDAD ALTA: " + s.Message + " Debido a la urgencia indicada, tu caso será atendido de manera prioritaria."
	case containsAny(lower, lowPriorityKeywords):
		s.Priority = domain.TicketPriorityLow
	}
	return s
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
