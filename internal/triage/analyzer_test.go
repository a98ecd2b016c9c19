package triage

import (
	"strings"
	"testing"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"
)

func TestAnalyzePriority(t *testing.T) {
	tests := []struct {
		description string
		want        domain.TicketPriority
	}{
		{"Tengo un EXAMEN mañana y no puedo entrar", domain.TicketPriorityHigh},
		{"Solo una consulta sobre el correo", domain.TicketPriorityLow},
		{"Mi contraseña dejó de funcionar", domain.TicketPriorityMedium},
		{"Una duda urgente", domain.TicketPriorityHigh},
	}
	a := NewKeywordAnalyzer()
	for _, tt := range tests {
		if got := a.Analyze(tt.description, domain.CategoryEmailPass).Priority; got != tt.want {
			t.Errorf("Analyze(%q) priority = %s, want %s", tt.description, got, tt.want)
		}
	}
}

func TestAnalyzeUrgentRewritesMessage(t *testing.T) {
	s := NewKeywordAnalyzer().Analyze("es urgente", domain.CategoryRedes)
	if !strings.HasPrefix(s.Message, "PRIORIDAD ALTA: ") {
		t.Errorf("Message = %q, want PRIORIDAD ALTA prefix", s.Message)
	}
	if s.EstimatedTime != "4-12 horas" {
		t.Errorf("EstimatedTime = %q", s.EstimatedTime)
	}
}

func TestAnalyzeCategoryResponse(t *testing.T) {
	s := NewKeywordAnalyzer().Analyze("necesito acceso", domain.CategoryAcademicRequest)
	if s.EstimatedTime != "3-5 días hábiles" {
		t.Errorf("EstimatedTime = %q", s.EstimatedTime)
	}
	if len(s.Tips) != 3 {
		t.Errorf("Tips = %d, want 3", len(s.Tips))
	}
}

func TestAdvisoryIncludesTips(t *testing.T) {
	s := Suggestion{Message: "m", EstimatedTime: "1 hora", Tips: []string{"a", "b"}}
	want := "m\nTiempo estimado: 1 hora\n- a\n- b"
	if got := s.Advisory(); got != want {
		t.Errorf("Advisory() = %q, want %q", got, want)
	}
}
