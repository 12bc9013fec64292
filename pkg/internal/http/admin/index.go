package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hoacouncil/canvass/pkg/internal/models"
)

// MapAdminAPIs wires the authenticated portal surface. Reads are open to
// FULL and VIEW_ONLY; anything that mutates requires FULL. LIMITED admins
// can only look at their own account until they verify their email.
func MapAdminAPIs(app *fiber.App) {
	admin := app.Group("/api/admin", authenticated)

	me := admin.Group("/me")
	{
		me.Get("/", getMe)
		me.Post("/2fa", beginTwoFactor)
		me.Put("/2fa", confirmTwoFactor)
		me.Delete("/2fa", disableTwoFactor)
	}

	readable := requireRole(models.AdminRoleFull, models.AdminRoleViewOnly)
	writable := requireRole(models.AdminRoleFull)

	admins := admin.Group("/admins", readable)
	{
		admins.Get("/", listAdmins)
		admins.Post("/", writable, createInvite)
		admins.Put("/:adminId/role", writable, changeAdminRole)
		admins.Delete("/:adminId", writable, deleteAdmin)
	}

	lists := admin.Group("/member-lists", readable)
	{
		lists.Get("/", listMemberLists)
		lists.Post("/", writable, createMemberList)
		lists.Get("/:listId", getMemberList)
		lists.Put("/:listId", writable, renameMemberList)
		lists.Delete("/:listId", writable, deleteMemberList)
		lists.Post("/:listId/members", writable, addMember)
		lists.Delete("/:listId/members/:memberId", writable, removeMember)
		lists.Post("/:listId/import", writable, importMembers)
	}

	surveys := admin.Group("/surveys", readable)
	{
		surveys.Get("/", listSurveys)
		surveys.Post("/", writable, createSurvey)
		surveys.Get("/:surveyId", getSurvey)
		surveys.Put("/:surveyId", writable, updateSurvey)
		surveys.Put("/:surveyId/member-list", writable, changeSurveyMemberList)
		surveys.Delete("/:surveyId", writable, deleteSurvey)

		surveys.Post("/:surveyId/questions", writable, createQuestion)
		surveys.Put("/:surveyId/questions/order", writable, reorderQuestions)
		surveys.Put("/:surveyId/questions/:questionId", writable, updateQuestion)
		surveys.Delete("/:surveyId/questions/:questionId", writable, deleteQuestion)

		surveys.Get("/:surveyId/responses", listResponses)
		surveys.Get("/:surveyId/statistics", getStatistics)
		surveys.Get("/:surveyId/export", exportResults)
		surveys.Post("/:surveyId/distribute", writable, distributeSurvey)
		surveys.Post("/:surveyId/reminders", writable, broadcastReminders)
	}

	responses := admin.Group("/responses", writable)
	{
		responses.Post("/:responseId/unlock", unlockResponse)
		responses.Delete("/:responseId", resetResponse)
	}
}
