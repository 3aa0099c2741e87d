package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"promo-checker/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// DB encapsula a conexão com o banco de dados
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// New cria uma nova instância do banco de dados
func New(dbPath string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// Um único escritor por execução
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, logger: logger}

	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("banco de dados inicializado com sucesso", "path", dbPath)
	return db, nil
}

// Close fecha a conexão com o banco de dados
func (db *DB) Close() error {
	return db.conn.Close()
}

// init cria as tabelas necessárias
func (db *DB) init() error {
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS product_states (
		url TEXT PRIMARY KEY,
		last_notified_type TEXT NOT NULL,
		last_notified_price TEXT,
		last_checked TEXT
	);
	CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		name TEXT,
		offer_type TEXT NOT NULL,
		price TEXT,
		reason TEXT NOT NULL,
		sent_at TEXT NOT NULL
	);
	`

	_, err := db.conn.Exec(createTablesSQL)
	return err
}

// Load lê todos os estados. Linhas ilegíveis são descartadas e um erro de
// leitura resulta em mapa vazio, como no arquivo JSON.
func (db *DB) Load(ctx context.Context) (models.States, error) {
	states := models.States{}

	rows, err := db.conn.QueryContext(ctx, "SELECT url, last_notified_type, last_notified_price, last_checked FROM product_states")
	if err != nil {
		db.logger.Warn("erro ao ler estados, começando do zero", "error", err)
		return states, nil
	}
	defer rows.Close()

	for rows.Next() {
		var url, typeName string
		var price, lastChecked sql.NullString
		if err := rows.Scan(&url, &typeName, &price, &lastChecked); err != nil {
			db.logger.Warn("linha de estado ilegível", "error", err)
			continue
		}

		t, err := models.ParseOfferType(typeName)
		if err != nil {
			db.logger.Warn("entrada de estado ignorada", "url", url, "error", err)
			continue
		}
		st := models.ProductState{LastNotifiedType: t}
		if price.Valid {
			if d, err := decimal.NewFromString(price.String); err == nil {
				st.LastNotifiedPrice = decimal.NewNullDecimal(d)
			}
		}
		if lastChecked.Valid {
			if ts, err := time.Parse(time.RFC3339, lastChecked.String); err == nil {
				st.LastChecked = ts
			}
		}
		states[url] = st
	}
	if err := rows.Err(); err != nil {
		db.logger.Warn("erro ao percorrer estados, começando do zero", "error", err)
		return models.States{}, nil
	}
	return states, nil
}

// Save substitui todos os estados dentro de uma transação
func (db *DB) Save(ctx context.Context, states models.States) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM product_states"); err != nil {
		return fmt.Errorf("erro ao limpar estados: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO product_states (url, last_notified_type, last_notified_price, last_checked) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("erro ao preparar inserção: %w", err)
	}
	defer stmt.Close()

	for url, st := range states {
		if _, err := stmt.ExecContext(ctx, url, st.LastNotifiedType.String(), nullPrice(st.LastNotifiedPrice), formatTime(st.LastChecked)); err != nil {
			return fmt.Errorf("erro ao gravar estado de %s: %w", url, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("erro ao confirmar transação: %w", err)
	}
	db.logger.Info("estado salvo", "products", len(states))
	return nil
}

// Notification é um aviso enviado, guardado como histórico
type Notification struct {
	ID        int64
	URL       string
	Name      string
	OfferType models.OfferType
	Price     decimal.NullDecimal
	Reason    string
	SentAt    time.Time
}

// AddNotification registra um aviso entregue
func (db *DB) AddNotification(ctx context.Context, n Notification) error {
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO notifications (url, name, offer_type, price, reason, sent_at) VALUES (?, ?, ?, ?, ?, ?)",
		n.URL, n.Name, n.OfferType.String(), nullPrice(n.Price), n.Reason, formatTime(n.SentAt),
	)
	return err
}

// ListNotifications retorna os avisos de uma URL, do mais recente ao mais antigo
func (db *DB) ListNotifications(ctx context.Context, url string) ([]Notification, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, url, name, offer_type, price, reason, sent_at FROM notifications WHERE url = ? ORDER BY id DESC",
		url,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var name, price sql.NullString
		var typeName, sentAt string
		if err := rows.Scan(&n.ID, &n.URL, &name, &typeName, &price, &n.Reason, &sentAt); err != nil {
			return nil, err
		}
		n.Name = name.String
		if t, err := models.ParseOfferType(typeName); err == nil {
			n.OfferType = t
		}
		if price.Valid {
			if d, err := decimal.NewFromString(price.String); err == nil {
				n.Price = decimal.NewNullDecimal(d)
			}
		}
		if ts, err := time.Parse(time.RFC3339, sentAt); err == nil {
			n.SentAt = ts
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func nullPrice(p decimal.NullDecimal) sql.NullString {
	if !p.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: p.Decimal.String(), Valid: true}
}

func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}
