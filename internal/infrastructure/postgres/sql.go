package postgres

const createContactTableSQL = `
CREATE TABLE IF NOT EXISTS contact_messages (
  id          TEXT PRIMARY KEY,
  name        TEXT NOT NULL,
  email       TEXT NOT NULL,
  subject     TEXT NOT NULL,
  message     TEXT NOT NULL,
  status      TEXT NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL,
  resolved_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS contact_messages_status_created_idx
  ON contact_messages (status, created_at DESC);
`

const insertContactSQL = `
INSERT INTO contact_messages (id, name, email, subject, message, status, created_at, resolved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

const getContactSQL = `
SELECT id, name, email, subject, message, status, created_at, resolved_at
FROM contact_messages WHERE id = $1
`

const updateContactSQL = `
UPDATE contact_messages SET status = $2, resolved_at = $3 WHERE id = $1
`

const listContactSQL = `
SELECT id, name, email, subject, message, status, created_at, resolved_at
FROM contact_messages
WHERE ($1 = '' OR status = $1)
ORDER BY created_at DESC
LIMIT $2
`
