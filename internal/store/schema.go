package store

// Ingredients reference recipes without ON DELETE CASCADE; no delete path is
// exposed, so nothing can orphan them today.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS recipes (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	title            TEXT    NOT NULL,
	preparation_time INTEGER NOT NULL,
	description      TEXT    NOT NULL DEFAULT '',
	views            INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ingredients (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT    NOT NULL,
	quantity    INTEGER NOT NULL,
	unit        TEXT    NOT NULL,
	description TEXT    NOT NULL DEFAULT '',
	recipe_id   INTEGER NOT NULL REFERENCES recipes(id)
);

CREATE INDEX IF NOT EXISTS idx_ingredients_recipe_id ON ingredients(recipe_id);
CREATE INDEX IF NOT EXISTS idx_recipes_views_prep ON recipes(views DESC, preparation_time ASC);
`
