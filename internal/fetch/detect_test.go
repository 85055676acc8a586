package fetch

import (
	"strings"
	"testing"
)

func TestBlockSignature_KnownInterstitials(t *testing.T) {
	// WHAT: Known anti-bot phrases are flagged regardless of case.
	// WHY: Blocked pages return HTTP 200 with challenge markup; content
	// is the only signal.
	pages := []string{
		`<html><body><h1>Access Denied</h1></body></html>`,
		`<html><body>Please complete the CAPTCHA to continue</body></html>`,
		`<html><body><p>Detectamos actividad inusual en tu cuenta.</p></body></html>`,
		`<html><body>Checking your browser before accessing…</body></html>`,
	}
	for _, page := range pages {
		sig, blocked := BlockSignature(page)
		if !blocked {
			t.Errorf("page not flagged: %q", page)
			continue
		}
		if sig == "" {
			t.Errorf("blocked page returned empty signature: %q", page)
		}
	}
}

func TestBlockSignature_EmptyAndTruncated(t *testing.T) {
	// WHAT: An empty render and a tiny bodyless document both count as
	// blocked.
	if sig, blocked := BlockSignature(""); !blocked || sig != "empty page" {
		t.Errorf("empty page: sig=%q blocked=%v", sig, blocked)
	}
	if sig, blocked := BlockSignature("<html><head></head></html>"); !blocked || sig != "truncated document" {
		t.Errorf("bodyless shell: sig=%q blocked=%v", sig, blocked)
	}
}

func TestBlockSignature_CleanPagePasses(t *testing.T) {
	// WHAT: A normal product page is not flagged.
	// WHY: False positives burn the retry budget on healthy targets.
	page := `<html><body>
		<h1>Notebook Lenovo IdeaPad 3</h1>
		<span class="price">$ 1.299.999</span>
		<p>Envío gratis a todo el país. Conocé nuestra política de seguridad.</p>
	</body></html>`
	if sig, blocked := BlockSignature(page); blocked {
		t.Errorf("clean page flagged as %q", sig)
	}
}

func TestBlockSignature_ShortPageWithBodyPasses(t *testing.T) {
	// WHAT: Small but complete documents are not mistaken for shells.
	page := `<html><body><span class="price">99</span></body></html>`
	if len(page) >= 512 {
		t.Fatal("fixture too long for the case under test")
	}
	if sig, blocked := BlockSignature(page); blocked {
		t.Errorf("short complete page flagged as %q", sig)
	}
}

func TestBlockSignature_RecaptchaScriptNotFlagged(t *testing.T) {
	// WHAT: Merely loading a captcha script does not mark the page.
	// WHY: Many legitimate pages embed reCAPTCHA for checkout forms.
	page := `<html><body>
		<script src="https://www.google.com/recaptcha/api.js"></script>
		<h1>Producto</h1><span class="price">500</span>
		<p>` + strings.Repeat("relleno ", 80) + `</p>
	</body></html>`
	if sig, blocked := BlockSignature(page); blocked {
		t.Errorf("page with captcha script flagged as %q", sig)
	}
}
