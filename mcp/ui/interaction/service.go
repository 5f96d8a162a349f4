package interaction

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	_ "github.com/viant/afs/mem"
	"github.com/viant/mcp-storagekit/storage/connector"
	"github.com/viant/mcp-storagekit/storage/secret"
	"github.com/viant/velty"
)

//go:embed asset/credential_form.html
var credentialForm []byte

//go:embed asset/notify.js
var notifyJS []byte

// Service handles /ui/interaction/{uuid} endpoints: the browser flow that
// collects sensitive option values out of band, so secrets never travel over
// the MCP channel.
type Service struct {
	Connector *connector.Manager
	Secrets   *secret.Store
	prober    *connector.Prober
}

// New builds the interaction service.
func New(connectors *connector.Manager, secrets *secret.Store) *Service {
	return &Service{Connector: connectors, Secrets: secrets, prober: connector.NewProber()}
}

// Register attaches HTTP handlers to the provided mux.
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ui/interaction/", s.Handle)
	mux.HandleFunc("/ui/asset/", s.ServeAsset)
}

func (s *Service) Handle(w http.ResponseWriter, r *http.Request) {
	// URL pattern: /ui/interaction/{uuid}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}
	uuid := parts[2]

	// Status landing (completed/cancelled/error) renders a minimal page. The
	// pending entry is already gone by then, so this is checked first.
	qs := r.URL.Query()
	if st := qs.Get("status"); st != "" && qs.Get("elicitationId") != "" {
		s.renderStatusNotify(w, st, qs.Get("elicitationId"))
		return
	}

	pend, ok := s.Connector.Pending(uuid)
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderCredentialForm(w, pend, "", nil)
	case http.MethodPost:
		s.handlePost(w, r, pend)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Service) credentialFormHTML(data map[string]string) ([]byte, error) {
	planner := velty.New()
	for k, v := range data {
		planner.DefineVariable(k, v)
	}
	execution, newState, err := planner.Compile(credentialForm)
	if err != nil {
		return nil, err
	}
	state := newState()
	for k, v := range data {
		state.SetValue(k, v)
	}
	if err = execution.Exec(state); err != nil {
		return nil, err
	}
	return state.Buffer.Bytes(), nil
}

// renderCredentialForm shows one input row per declared sensitive field,
// pre-filling previously posted non-secret state only.
func (s *Service) renderCredentialForm(w http.ResponseWriter, pend *connector.PendingCredential, errorMessage string, posted map[string]string) {
	var rows strings.Builder
	for _, field := range pend.Fields {
		name := field.Name
		label := name
		if field.Help != "" {
			label = fmt.Sprintf("%s <small>%s</small>", name, htmlEscape(field.Help))
		}
		required := ""
		if field.RequiredCredential {
			required = " required"
		}
		rows.WriteString(fmt.Sprintf(
			"<div class=\"field\"><label for=\"%[1]s\">%[2]s</label><input type=\"password\" id=\"%[1]s\" name=\"%[1]s\" autocomplete=\"off\"%[3]s/></div>\n",
			htmlEscape(name), label, required))
	}
	content, err := s.credentialFormHTML(map[string]string{
		"Connector":    pend.Connector.Metadata.Name,
		"Schema":       pend.Connector.SchemaPrefix(),
		"UUID":         pend.UUID,
		"ErrorMessage": errorMessage,
		"Fields":       rows.String(),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(content)
}

func (s *Service) handlePost(w http.ResponseWriter, r *http.Request, pend *connector.PendingCredential) {
	data, err := s.postData(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if act, ok := data["action"]; ok && act == "cancel" {
		_ = s.Connector.CancelPending(pend.UUID)
		http.Redirect(w, r, "/ui/interaction/"+pend.UUID+"?elicitationId="+nurl.QueryEscape(pend.ElicitID)+"&status=cancelled", http.StatusSeeOther)
		return
	}

	values := map[string]string{}
	for _, field := range pend.Fields {
		value := data[field.Name]
		if value == connector.SavedSecretDisplayValue {
			s.renderCredentialForm(w, pend, fmt.Sprintf("field %s: the saved-secret placeholder cannot be submitted as a value", field.Name), data)
			return
		}
		if value == "" {
			if field.RequiredCredential {
				s.renderCredentialForm(w, pend, fmt.Sprintf("%s is required", field.Name), data)
				return
			}
			continue
		}
		values[field.Name] = value
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	if err := s.testConnection(ctx, pend, values); err != nil {
		s.renderCredentialForm(w, pend, fmt.Sprintf("failed to connect to storage: %v", err), data)
		return
	}

	if err := s.Secrets.Save(ctx, pend.Connector.SchemaPrefix(), pend.Connector.Metadata.Slug, pend.Namespace, values); err != nil {
		http.Error(w, fmt.Sprintf("failed to store credentials: %v", err), http.StatusInternalServerError)
		return
	}
	s.handleCompletion(w, r, pend)
}

// testConnection merges the collected values into the stored configuration
// and probes the backend. Values stay in memory for the duration of the
// probe only.
func (s *Service) testConnection(ctx context.Context, pend *connector.PendingCredential, values map[string]string) error {
	storage := pend.Connector.Storage
	configuration := make(map[string]interface{}, len(storage.Configuration)+len(values))
	for key, value := range storage.Configuration {
		configuration[key] = value
	}
	for name, value := range values {
		configuration[name] = value
	}
	return s.prober.Test(ctx, configuration, storage.SourcePath)
}

func (s *Service) handleCompletion(w http.ResponseWriter, r *http.Request, pend *connector.PendingCredential) {
	_ = s.Connector.CompletePending(pend.UUID)
	// Redirect to the status landing (GET) so the external script can
	// auto-notify and close.
	http.Redirect(w, r, "/ui/interaction/"+pend.UUID+"?elicitationId="+nurl.QueryEscape(pend.ElicitID)+"&status=completed", http.StatusSeeOther)
}

func (s *Service) postData(r *http.Request) (map[string]string, error) {
	var data = make(map[string]string)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for k, v := range r.PostForm {
		if len(v) > 0 {
			data[k] = v[0]
		}
	}
	return data, nil
}

// ServeAsset serves small static assets like notify.js from embedded data.
func (s *Service) ServeAsset(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/ui/asset/")
	switch path {
	case "notify.js":
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write(notifyJS)
	default:
		http.NotFound(w, r)
	}
}

// renderStatusNotify renders a minimal landing page that loads notify.js,
// which reads URL query parameters (elicitationId, status) to notify the
// opener and close.
func (s *Service) renderStatusNotify(w http.ResponseWriter, status, elicitID string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	msg := "Connector status: " + status + ". This tab will close automatically."
	_, _ = w.Write([]byte("<html><body><h3>" + htmlEscape(msg) + "</h3><script src=\"/ui/asset/notify.js\"></script></body></html>"))
}

func htmlEscape(v string) string {
	replacer := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return replacer.Replace(v)
}
