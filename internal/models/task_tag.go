package models

// TaskTag is the task/tag join row. It has no identity beyond the pair; the
// whole set for a task is replaced as a unit on every tag-set operation.
type TaskTag struct {
	TaskID uint64 `gorm:"primarykey" json:"task_id"`
	TagID  uint64 `gorm:"primarykey" json:"tag_id"`

	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
	Tag  Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:RESTRICT" json:"-"`
}
