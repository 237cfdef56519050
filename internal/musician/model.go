package musician

// Musician is a row of the standalone musician directory.
type Musician struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	Bio  string `gorm:"type:text" json:"bio"`
}

func (Musician) TableName() string {
	return "musicians"
}

type CreateMusicianRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Bio  string `json:"bio" binding:"max=5000"`
}
