package models

// HistoryBlob is the key-value representation of one whole history. The
// payload holds the full JSON-serialized sequence and is overwritten wholesale
// on every mutation; there is no incremental append at the storage layer.
type HistoryBlob struct {
	Key     string `gorm:"primaryKey;type:varchar(64)"`
	Payload []byte
}
