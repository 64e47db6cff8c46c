package app

import (
	"net/url"
	"strings"

	"github.com/mmrzaf/datadash/internal/domain"
)

// resolveSinkForPush applies a database override, falling back to the sink's
// "database" option, to postgres DSNs. Other kinds are returned unchanged.
func resolveSinkForPush(base *domain.SinkConfig, dbOverride string) *domain.SinkConfig {
	if base == nil {
		return nil
	}
	s := *base
	database := dbOverride
	if database == "" {
		database = s.Options["database"]
	}
	if s.Kind == domain.SinkKindPostgres && database != "" {
		s.DSN = withPostgresDatabase(s.DSN, database)
	}
	return &s
}

func withPostgresDatabase(dsn, database string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return dsn
	}
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.Host != "" {
		u.Path = "/" + database
		return u.String()
	}
	parts := strings.Fields(dsn)
	found := false
	for i := range parts {
		if strings.HasPrefix(strings.ToLower(parts[i]), "dbname=") {
			parts[i] = "dbname=" + database
			found = true
			break
		}
	}
	if !found {
		parts = append(parts, "dbname="+database)
	}
	return strings.Join(parts, " ")
}
