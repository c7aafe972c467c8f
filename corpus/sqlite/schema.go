package sqlite

// DefaultFilename is the database filename used when a corpus directory is given.
const DefaultFilename = "articles.sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	Id TEXT PRIMARY KEY,
	Source TEXT,
	Published DATETIME,
	Publication TEXT,
	Authors TEXT,
	Title TEXT,
	Tags TEXT,
	Reference TEXT,
	Entry DATETIME
);

CREATE TABLE IF NOT EXISTS sections (
	Id INTEGER PRIMARY KEY,
	Article TEXT,
	Name TEXT,
	Text TEXT,
	Tags TEXT,
	Labels TEXT
);

CREATE INDEX IF NOT EXISTS section_article ON sections(Article);
`

// Timestamp columns are declared DATETIME, which the driver would otherwise
// convert to time.Time. They are cast so the raw stored value is returned.
const (
	selectSections = `SELECT Id, Article, Name, Text, Tags FROM sections`
	selectArticles = `SELECT Id, Title, Authors, CAST(Published AS TEXT) AS Published,
	Publication, Reference, CAST(Entry AS TEXT) AS Entry FROM articles`
)
