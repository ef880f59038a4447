package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

const sweetColumns = "id, name, category, price, quantity, description, image_url, created_at, updated_at"

// SweetRepo implementación de SweetRepository sobre PostgreSQL (usable con pool o tx).
type SweetRepo struct {
	q Querier
}

// NewSweetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSweetRepository(q Querier) *SweetRepo {
	return &SweetRepo{q: q}
}

func scanSweet(row pgx.Row) (*entity.Sweet, error) {
	var s entity.Sweet
	var description, imageURL *string
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity,
		&description, &imageURL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description != nil {
		s.Description = *description
	}
	if imageURL != nil {
		s.ImageURL = *imageURL
	}
	return &s, nil
}

// Create persiste un dulce nuevo.
func (r *SweetRepo) Create(sweet *entity.Sweet) error {
	query := `
		INSERT INTO sweets (id, name, category, price, quantity, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		sweet.ID, sweet.Name, sweet.Category, sweet.Price, sweet.Quantity,
		nullable(sweet.Description), nullable(sweet.ImageURL), sweet.CreatedAt, sweet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sweet: %w", err)
	}
	return nil
}

// GetByID obtiene un dulce por ID. Devuelve nil, nil si no existe.
func (r *SweetRepo) GetByID(id string) (*entity.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id = $1`
	s, err := scanSweet(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sweet: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el dulce bloqueando su fila (SELECT FOR UPDATE).
// Si el bloqueo no llega dentro del lock_timeout de la transacción, devuelve
// domain.ErrBusy para que el motor decida reintentar.
func (r *SweetRepo) GetForUpdate(id string) (*entity.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id = $1 FOR UPDATE`
	s, err := scanSweet(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isLockNotAvailable(err) {
			return nil, domain.ErrBusy
		}
		return nil, fmt.Errorf("get sweet for update: %w", err)
	}
	return s, nil
}

// Save persiste el estado completo del dulce, Quantity incluido. El CHECK
// quantity >= 0 de la tabla es la última línea de defensa; el motor valida
// antes bajo el bloqueo de fila.
func (r *SweetRepo) Save(sweet *entity.Sweet) error {
	query := `
		UPDATE sweets
		SET name = $2, category = $3, price = $4, quantity = $5,
		    description = $6, image_url = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		sweet.ID, sweet.Name, sweet.Category, sweet.Price, sweet.Quantity,
		nullable(sweet.Description), nullable(sweet.ImageURL), sweet.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("save sweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update aplica un patch de catálogo construyendo el SET solo con los campos
// reconocidos presentes. Devuelve nil, nil si el dulce no existe.
func (r *SweetRepo) Update(id string, patch repository.SweetPatch) (*entity.Sweet, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	pos := 2
	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, pos))
		args = append(args, value)
		pos++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.Description != nil {
		add("description", nullable(*patch.Description))
	}
	if patch.ImageURL != nil {
		add("image_url", nullable(*patch.ImageURL))
	}

	query := "UPDATE sweets SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE id = $1 RETURNING " + sweetColumns

	s, err := scanSweet(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	return s, nil
}

// Delete elimina un dulce; sus eventos caen en cascada (FK ON DELETE CASCADE).
func (r *SweetRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todos los dulces ordenados por nombre.
func (r *SweetRepo) List() ([]*entity.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	defer rows.Close()
	return collectSweets(rows)
}

// Search filtra por subcadena de nombre (case-insensitive), categoría y
// rango de precio; siempre ordenado por nombre.
func (r *SweetRepo) Search(filter repository.SweetFilter) ([]*entity.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE 1=1`
	var args []any
	pos := 1
	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", pos)
		args = append(args, "%"+filter.Name+"%")
		pos++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, filter.Category)
		pos++
	}
	if filter.MinPrice != nil {
		query += fmt.Sprintf(" AND price >= $%d", pos)
		args = append(args, *filter.MinPrice)
		pos++
	}
	if filter.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", pos)
		args = append(args, *filter.MaxPrice)
		pos++
	}
	query += " ORDER BY name"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	defer rows.Close()
	return collectSweets(rows)
}

func collectSweets(rows pgx.Rows) ([]*entity.Sweet, error) {
	var list []*entity.Sweet
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
