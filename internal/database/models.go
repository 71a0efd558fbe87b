package database

type Document struct {
	ID     string
	Title  string
	Source string
}

type Chunk struct {
	ID         string
	DocumentID string
	Index      int
	Content    string
	Source     string
}
