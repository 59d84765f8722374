package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	due_date      DATETIME,
	category      TEXT NOT NULL DEFAULT '',
	priority      TEXT NOT NULL DEFAULT 'medium',
	assigned_to   TEXT NOT NULL DEFAULT '',
	assignee_name TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'newTask',
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL,
	fetched_at    DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
	id              TEXT PRIMARY KEY,
	first_name      TEXT NOT NULL,
	email           TEXT NOT NULL,
	count_new       INTEGER NOT NULL DEFAULT 0,
	count_active    INTEGER NOT NULL DEFAULT 0,
	count_completed INTEGER NOT NULL DEFAULT 0,
	count_failed    INTEGER NOT NULL DEFAULT 0,
	count_total     INTEGER NOT NULL DEFAULT 0,
	fetched_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS stats_snapshots (
	id              TEXT PRIMARY KEY,
	employees       INTEGER NOT NULL DEFAULT 0,
	tasks           INTEGER NOT NULL DEFAULT 0,
	count_new       INTEGER NOT NULL DEFAULT 0,
	count_active    INTEGER NOT NULL DEFAULT 0,
	count_completed INTEGER NOT NULL DEFAULT 0,
	count_failed    INTEGER NOT NULL DEFAULT 0,
	count_total     INTEGER NOT NULL DEFAULT 0,
	taken_at        DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	task_id    TEXT NOT NULL,
	message    TEXT NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks(assigned_to);
CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
CREATE INDEX IF NOT EXISTS idx_tasks_updated_at ON tasks(updated_at);
CREATE INDEX IF NOT EXISTS idx_employees_email ON employees(email);
CREATE INDEX IF NOT EXISTS idx_stats_taken_at ON stats_snapshots(taken_at);
CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_tasks_status_updated
	ON tasks(status, updated_at);

CREATE INDEX IF NOT EXISTS idx_notifications_task_id
	ON notifications(task_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
