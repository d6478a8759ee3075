package services

import (
	"database/sql"
	"fmt"
	"strings"

	"cardbank/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserService(db *sql.DB, logger zerolog.Logger) *UserService {
	return &UserService{
		db:     db,
		logger: logger,
	}
}

func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" ||
		req.FirstName == "" || req.LastName == "" || req.Phone == "" || req.BirthYear == 0 {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidInput)
	}

	var existingID int
	err := s.db.QueryRow(
		"SELECT id FROM users WHERE username = ? OR email = ? OR phone = ?",
		req.Username, req.Email, req.Phone,
	).Scan(&existingID)
	if err == nil {
		return nil, fmt.Errorf("%w: user already exists", ErrConflict)
	} else if err != sql.ErrNoRows {
		s.logger.Error().Err(err).Msg("Error checking existing user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO users (username, email, password_hash, first_name, last_name, phone, birth_year, is_admin) VALUES (?, ?, ?, ?, ?, ?, ?, FALSE)",
		req.Username, req.Email, string(hashedPassword), req.FirstName, req.LastName, req.Phone, req.BirthYear,
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	userID, err := result.LastInsertId()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error getting user ID")
		return nil, fmt.Errorf("failed to get user ID: %w", err)
	}

	user, err := s.GetUserByID(int(userID))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("User registered successfully")
	return user, nil
}

// Authenticate verifies a login against the stored bcrypt hash. The
// identifier matches either username or email. Unknown user and wrong
// password yield the same error so callers cannot distinguish them.
func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: missing credentials", ErrInvalidInput)
	}

	var user models.User

	err := s.db.QueryRow(
		"SELECT id, username, email, password_hash, first_name, last_name, phone, birth_year, is_admin, created_at FROM users WHERE username = ? OR email = ?",
		req.Username, req.Username,
	).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.Phone, &user.BirthYear, &user.IsAdmin, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Error querying user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		s.logger.Warn().Str("username", req.Username).Msg("Failed authentication attempt")
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	s.logger.Info().Int("user_id", user.ID).Str("username", user.Username).Msg("User authenticated successfully")
	return &user, nil
}

func (s *UserService) GetUserByID(userID int) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT id, username, email, password_hash, first_name, last_name, phone, birth_year, is_admin, created_at FROM users WHERE id = ?",
		userID,
	).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.Phone, &user.BirthYear, &user.IsAdmin, &user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error fetching user")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

func (s *UserService) ListUsers() ([]*models.User, error) {
	rows, err := s.db.Query(
		"SELECT id, username, email, first_name, last_name, phone, birth_year, is_admin, created_at FROM users ORDER BY created_at DESC",
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching users")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
			&user.Phone, &user.BirthYear, &user.IsAdmin, &user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// UpdateUser applies the admin update payload. Columns are taken from a
// fixed allow-list; unknown keys are dropped without error. Column names
// never come from the request, only from the allow-list, so the query is
// built from validated identifiers.
func (s *UserService) UpdateUser(userID int, updates models.UserUpdates) error {
	var setParts []string
	var values []interface{}

	for _, field := range []string{"first_name", "last_name", "phone", "email", "birth_year"} {
		if value, ok := updates[field]; ok && models.AllowedUserUpdateFields[field] {
			setParts = append(setParts, field+" = ?")
			values = append(values, value)
		}
	}

	if len(setParts) == 0 {
		return nil
	}

	values = append(values, userID)
	query := "UPDATE users SET " + strings.Join(setParts, ", ") + " WHERE id = ?"

	_, err := s.db.Exec(query, values...)
	if err != nil {
		s.logger.Error().Err(err).Int("user_id", userID).Msg("Error updating user")
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info().Int("user_id", userID).Int("fields", len(setParts)).Msg("User updated")
	return nil
}
