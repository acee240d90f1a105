package email

import (
	"strings"
	"testing"
)

func TestRenderStatusChangedTemplate(t *testing.T) {
	content, err := renderEmailTemplate("status_changed.html", statusChangedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Bildirim durumu güncellendi",
			Heading: "Bildiriminizin durumu değişti",
		},
		ReportTitle:    "Kaldırımda çukur",
		StatusLabel:    "Çözüldü",
		ResolutionNote: "Çukur asfaltla kapatıldı.",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Kaldırımda çukur", "Çözüldü", "Çukur asfaltla kapatıldı."} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered mail missing %q", want)
		}
	}
}

func TestRenderStatusChangedTemplateWithoutNote(t *testing.T) {
	content, err := renderEmailTemplate("status_changed.html", statusChangedEmailData{
		baseEmailData: baseEmailData{Title: "t", Heading: "h"},
		ReportTitle:   "Sokak lambası arızalı",
		StatusLabel:   "İşlemde",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(content, "Açıklama") {
		t.Error("rendered mail should omit the note section when empty")
	}
}

func TestRenderWelcomeTemplate(t *testing.T) {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{Title: subjectWelcome, Heading: "Hoş geldiniz"},
		FirstName:     "Ayşe",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(content, "Merhaba Ayşe") {
		t.Error("rendered mail missing greeting")
	}
}

func TestStatusLabelFallsBackToRawStatus(t *testing.T) {
	if got := StatusLabel("archived"); got != "archived" {
		t.Errorf("unexpected label %q", got)
	}
}
