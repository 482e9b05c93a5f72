package store

type User struct {
	ID           uint64 `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
}

type Todo struct {
	ID      uint64 `json:"id" gorm:"primaryKey"`
	UserID  uint64 `json:"-" gorm:"index"`
	User    *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Message string `json:"message"`
	Date    string `json:"date"`
	CatFact string `json:"cat_fact"`
}
