// Package state persiste o último estado notificado de cada produto em um
// arquivo JSON legível.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"promo-checker/internal/models"
)

// record é o formato de cada entrada no arquivo
type record struct {
	LastNotifiedType     string       `json:"lastNotifiedType"`
	LastNotifiedPrice    *json.Number `json:"lastNotifiedPrice"`
	LastCheckedTimestamp string       `json:"lastCheckedTimestamp"`
}

// FileStore guarda os estados em um único arquivo JSON
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore cria um FileStore para o caminho informado
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Path retorna o caminho do arquivo de estado
func (s *FileStore) Path() string {
	return s.path
}

// Load lê o arquivo inteiro. Arquivo ausente ou corrompido resulta em
// mapa vazio: a execução começa do zero em vez de falhar.
func (s *FileStore) Load(_ context.Context) (models.States, error) {
	states := models.States{}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("arquivo de estado não encontrado, começando do zero", "path", s.path)
		return states, nil
	}
	if err != nil {
		s.logger.Warn("erro ao ler arquivo de estado, começando do zero", "path", s.path, "error", err)
		return states, nil
	}

	var records map[string]record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("arquivo de estado corrompido, começando do zero", "path", s.path, "error", err)
		return states, nil
	}

	for url, rec := range records {
		st, err := rec.toState()
		if err != nil {
			s.logger.Warn("entrada de estado ignorada", "url", url, "error", err)
			continue
		}
		states[url] = st
	}
	return states, nil
}

// Save grava em um arquivo temporário e substitui o original com rename,
// de modo que uma escrita interrompida não destrói o estado anterior.
// Se o conteúdo não mudou nada é escrito.
func (s *FileStore) Save(_ context.Context, states models.States) error {
	records := make(map[string]record, len(states))
	for url, st := range states {
		rec, err := fromState(st)
		if err != nil {
			return fmt.Errorf("estado de %s: %w", url, err)
		}
		records[url] = rec
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("erro ao serializar estado: %w", err)
	}
	data = append(data, '\n')

	if current, err := os.ReadFile(s.path); err == nil && bytes.Equal(current, data) {
		s.logger.Debug("estado inalterado, nada a gravar", "path", s.path)
		return nil
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo temporário: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op depois do rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("erro ao gravar estado: %w", err)
	}
	// CreateTemp cria com 0600; o arquivo de estado mantém o modo atual (ou 0644)
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(s.path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("erro ao ajustar permissões do estado: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("erro ao sincronizar estado: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("erro ao fechar arquivo temporário: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("erro ao substituir arquivo de estado: %w", err)
	}

	s.logger.Info("estado salvo", "path", s.path, "products", len(states))
	return nil
}

func (r record) toState() (models.ProductState, error) {
	t, err := models.ParseOfferType(r.LastNotifiedType)
	if err != nil {
		return models.ProductState{}, err
	}
	st := models.ProductState{LastNotifiedType: t}

	if r.LastNotifiedPrice != nil {
		d, err := decimal.NewFromString(r.LastNotifiedPrice.String())
		if err != nil {
			return models.ProductState{}, fmt.Errorf("preço inválido %q: %w", r.LastNotifiedPrice.String(), err)
		}
		st.LastNotifiedPrice = decimal.NewNullDecimal(d)
	}

	if r.LastCheckedTimestamp != "" {
		if ts, err := time.Parse(time.RFC3339, r.LastCheckedTimestamp); err == nil {
			st.LastChecked = ts
		}
	}
	return st, nil
}

func fromState(st models.ProductState) (record, error) {
	name, err := st.LastNotifiedType.MarshalText()
	if err != nil {
		return record{}, err
	}
	rec := record{LastNotifiedType: string(name)}
	if st.LastNotifiedPrice.Valid {
		n := json.Number(st.LastNotifiedPrice.Decimal.String())
		rec.LastNotifiedPrice = &n
	}
	if !st.LastChecked.IsZero() {
		rec.LastCheckedTimestamp = st.LastChecked.UTC().Format(time.RFC3339)
	}
	return rec, nil
}
