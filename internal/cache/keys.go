package cache

import (
	"fmt"

	"github.com/google/uuid"
)

const CategoryListKey = "list"

func CategoryKey(id uuid.UUID) string {
	return fmt.Sprintf("id:%s", id)
}

func DashboardKey(period string) string {
	return fmt.Sprintf("dashboard:%s", period)
}
