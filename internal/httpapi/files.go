package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listing, err := s.Files.List(q.Get("path"), parseBool(q.Get("showHidden")))
	if err != nil {
		s.logServiceError(r, "list", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	local, info, mimeType, err := s.Files.ResolveDownload(r.URL.Query().Get("path"))
	if err != nil {
		s.logServiceError(r, "download", err)
		writeServiceError(w, err)
		return
	}
	w.Header().Set("content-type", mimeType)
	w.Header().Set("content-length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("content-disposition", `attachment; filename="`+escapeQuotes(info.Name())+`"`)
	http.ServeFile(w, r, local)
}

func (s *Server) handleMkdir(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid JSON")
		return
	}
	if err := s.Files.Mkdir(req.Path, req.Name); err != nil {
		s.logServiceError(r, "mkdir", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path"`
		NewName string `json:"newName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid JSON")
		return
	}
	if err := s.Files.Rename(req.Path, req.NewName); err != nil {
		s.logServiceError(r, "rename", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.Files.Delete(r.URL.Query().Get("path")); err != nil {
		s.logServiceError(r, "delete", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleReadContent(w http.ResponseWriter, r *http.Request) {
	content, err := s.Files.ReadContent(r.URL.Query().Get("path"))
	if err != nil {
		s.logServiceError(r, "read", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (s *Server) handleWriteContent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid JSON")
		return
	}
	res, err := s.Files.WriteContent(req.Path, req.Content)
	if err != nil {
		s.logServiceError(r, "write", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "size": res.Size, "mtime": res.MTime})
}

// logServiceError records filesystem failures with request context.
// Expected client errors stay at debug; the envelope already tells the
// caller what happened.
func (s *Server) logServiceError(r *http.Request, op string, err error) {
	s.Logger.Debug("file operation failed", "op", op, "path", r.URL.Query().Get("path"), "error", err)
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(filepath.Base(s), `"`, "")
}
