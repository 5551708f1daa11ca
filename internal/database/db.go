package database

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/easy-search/internal/config"
)

// Open connects to MySQL and verifies the connection.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
    mc := mysql.NewConfig()
    mc.User = cfg.User
    mc.Passwd = cfg.Pass
    mc.Net = "tcp"
    mc.Addr = cfg.Host + ":" + cfg.Port
    mc.DBName = cfg.Name
    // DATETIME -> time.Time, always in UTC
    mc.ParseTime = true
    mc.Loc = time.UTC
    mc.Params = map[string]string{"charset": "utf8mb4"}
    // RowsAffected counts matched rows, so an UPDATE to the current value
    // still reports the row as found
    mc.ClientFoundRows = true

    db, err := sql.Open("mysql", mc.FormatDSN())
    if err != nil {
        return nil, fmt.Errorf("open mysql: %w", err)
    }

    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, fmt.Errorf("ping mysql: %w", err)
    }
    return db, nil
}

// schema creates the credential store.  Each role has its own profile
// table keyed by user_id; refresh_tokens holds at most one row per user.
var schema = []string{
    `CREATE TABLE IF NOT EXISTS users (
        id             CHAR(36)     NOT NULL PRIMARY KEY,
        email          VARCHAR(255) NULL UNIQUE,
        contact_number VARCHAR(32)  NULL UNIQUE,
        password_hash  VARCHAR(255) NULL,
        role           ENUM('CUSTOMER','HOST','ADMIN') NOT NULL DEFAULT 'CUSTOMER',
        status         ENUM('ACTIVE','INACTIVE','BLOCKED') NOT NULL DEFAULT 'ACTIVE',
        created_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
    profileDDL("customers"),
    profileDDL("hosts"),
    profileDDL("admins"),
    `CREATE TABLE IF NOT EXISTS refresh_tokens (
        user_id    CHAR(36)     NOT NULL PRIMARY KEY,
        token_hash VARCHAR(255) NOT NULL,
        expires_at DATETIME     NOT NULL,
        user_agent VARCHAR(255) NOT NULL DEFAULT 'unknown',
        ip         VARCHAR(64)  NOT NULL DEFAULT 'unknown',
        created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

func profileDDL(table string) string {
    return `CREATE TABLE IF NOT EXISTS ` + table + ` (
        user_id        CHAR(36)     NOT NULL PRIMARY KEY,
        name           VARCHAR(255) NOT NULL DEFAULT '',
        email          VARCHAR(255) NULL,
        contact_number VARCHAR(32)  NULL,
        profile_photo  VARCHAR(512) NULL,
        created_at     DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
        CONSTRAINT fk_` + table + `_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
}

// Migrate applies the schema.  Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
    for _, stmt := range schema {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("migrate: %w", err)
        }
    }
    return nil
}
