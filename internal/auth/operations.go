package auth

import "github.com/spec-kit/library-service/internal/domain"

// Operation identifies one guarded API action.
type Operation string

const (
	OpAuthRegister Operation = "auth.register"
	OpAuthLogin    Operation = "auth.login"
	OpAuthRefresh  Operation = "auth.refresh"
	OpAuthReset    Operation = "auth.reset"

	OpBooksList   Operation = "books.list"
	OpBooksGet    Operation = "books.get"
	OpBooksSearch Operation = "books.search"
	OpBooksSorted Operation = "books.sorted"
	OpBooksTop    Operation = "books.top"
	OpBooksGenre  Operation = "books.genre"
	OpBooksCreate Operation = "books.create"
	OpBooksUpdate Operation = "books.update"
	OpBooksDelete Operation = "books.delete"
	OpBooksCover  Operation = "books.upload_cover"
	OpBooksPDF    Operation = "books.upload_pdf"

	OpReviewsList   Operation = "reviews.list"
	OpReviewsAdd    Operation = "reviews.add"
	OpReviewsUpdate Operation = "reviews.update"
	OpReviewsDelete Operation = "reviews.delete"

	OpFavoritesList   Operation = "favorites.list"
	OpFavoritesAdd    Operation = "favorites.add"
	OpFavoritesRemove Operation = "favorites.remove"

	OpHistoryList Operation = "history.list"

	OpUsersMe     Operation = "users.me"
	OpUsersUpdate Operation = "users.update"
	OpUsersDelete Operation = "users.delete"

	OpAdminStats         Operation = "admin.stats"
	OpAdminStatsExtended Operation = "admin.stats_extended"
	OpAdminMetrics       Operation = "admin.metrics"
)

// DefaultPolicyTable declares the access requirement of every operation.
func DefaultPolicyTable() map[Operation]Requirement {
	admin := RequiresRole(domain.RoleAdmin)
	return map[Operation]Requirement{
		OpAuthRegister: Public(),
		OpAuthLogin:    Public(),
		OpAuthRefresh:  Public(),
		OpAuthReset:    AuthenticatedAny(),

		OpBooksList:   Public(),
		OpBooksGet:    Public(),
		OpBooksSearch: Public(),
		OpBooksSorted: Public(),
		OpBooksTop:    Public(),
		OpBooksGenre:  Public(),
		OpBooksCreate: admin,
		OpBooksUpdate: admin,
		OpBooksDelete: admin,
		OpBooksCover:  admin,
		OpBooksPDF:    admin,

		OpReviewsList:   Public(),
		OpReviewsAdd:    AuthenticatedAny(),
		OpReviewsUpdate: AuthenticatedAny(),
		OpReviewsDelete: AuthenticatedAny(),

		OpFavoritesList:   AuthenticatedAny(),
		OpFavoritesAdd:    AuthenticatedAny(),
		OpFavoritesRemove: AuthenticatedAny(),

		OpHistoryList: AuthenticatedAny(),

		OpUsersMe:     AuthenticatedAny(),
		OpUsersUpdate: AuthenticatedAny(),
		OpUsersDelete: AuthenticatedAny(),

		OpAdminStats:         admin,
		OpAdminStatsExtended: admin,
		OpAdminMetrics:       admin,
	}
}
