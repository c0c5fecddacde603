package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/gualvesx/V.O.C.E.v2-SenaiEdition/core/classroom"
)

type (
	SuccessResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	ClassCreatedResponse struct {
		SuccessResponse
		ClassID int `json:"classId"`
	}

	StudentCreatedResponse struct {
		SuccessResponse
		Student classroom.Student `json:"student"`
	}
)

func success(msg string) SuccessResponse {
	return SuccessResponse{Success: true, Message: msg}
}

type classroomHandler struct {
	validate *validator.Validate
	svc      *classroom.Service
}

func registerClassroomAPI(g *echo.Group, opts Options) {
	h := classroomHandler{validate: opts.Validate, svc: opts.ClassroomSvc}

	g.GET("/classes", h.listClasses)
	g.POST("/classes", h.createClass)
	g.PUT("/classes/:id", h.renameClass)
	g.DELETE("/classes/:id", h.deleteClass)
	g.GET("/classes/:id/students", h.roster)
	g.POST("/classes/:id/add-student", h.addStudent)
	g.DELETE("/classes/:id/remove-student/:sid", h.removeStudent)

	g.GET("/students/all", h.listStudents)
	g.POST("/students", h.createStudent)
	g.PUT("/students/:id", h.updateStudent)
}

func (h classroomHandler) listClasses(ctx echo.Context) error {
	classes, err := h.svc.QueryClasses(ctx.Request().Context(), getAuthContext(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (h classroomHandler) createClass(ctx echo.Context) error {
	var in classroom.ClassInput
	if err := bindBody(ctx, &in); err != nil {
		return err
	}
	if err := in.Validate(h.validate); err != nil {
		return err
	}
	class, err := h.svc.CreateClass(ctx.Request().Context(), getAuthContext(ctx), in)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ClassCreatedResponse{
		SuccessResponse: success("Turma criada com sucesso!"),
		ClassID:         class.ID,
	})
}

func (h classroomHandler) renameClass(ctx echo.Context) error {
	id, err := pathID(ctx, "id", classroom.ErrClassNotFound)
	if err != nil {
		return err
	}
	var in classroom.ClassInput
	if err := bindBody(ctx, &in); err != nil {
		return err
	}
	if err := in.Validate(h.validate); err != nil {
		return err
	}
	if err := h.svc.RenameClass(ctx.Request().Context(), getAuthContext(ctx), id, in); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, success("Nome da turma atualizado!"))
}

func (h classroomHandler) deleteClass(ctx echo.Context) error {
	id, err := pathID(ctx, "id", classroom.ErrClassNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteClass(ctx.Request().Context(), getAuthContext(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, success("Turma removida com sucesso!"))
}

func (h classroomHandler) roster(ctx echo.Context) error {
	id, err := pathID(ctx, "id", classroom.ErrClassNotFound)
	if err != nil {
		return err
	}
	students, err := h.svc.Roster(ctx.Request().Context(), getAuthContext(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (h classroomHandler) addStudent(ctx echo.Context) error {
	id, err := pathID(ctx, "id", classroom.ErrClassNotFound)
	if err != nil {
		return err
	}
	var in classroom.MembershipInput
	if err := bindBody(ctx, &in); err != nil {
		return err
	}
	if err := in.Validate(h.validate); err != nil {
		return err
	}
	if err := h.svc.AddMember(ctx.Request().Context(), getAuthContext(ctx), id, int(in.StudentID)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, success("Aluno adicionado à turma!"))
}

func (h classroomHandler) removeStudent(ctx echo.Context) error {
	id, err := pathID(ctx, "id", classroom.ErrClassNotFound)
	if err != nil {
		return err
	}
	studentID, err := pathID(ctx, "sid", classroom.ErrStudentNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.RemoveMember(ctx.Request().Context(), getAuthContext(ctx), id, studentID); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, success("Aluno removido da turma!"))
}

func (h classroomHandler) listStudents(ctx echo.Context) error {
	students, err := h.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (h classroomHandler) createStudent(ctx echo.Context) error {
	var in classroom.StudentInput
	if err := bindBody(ctx, &in); err != nil {
		return err
	}
	if err := in.Validate(h.validate); err != nil {
		return err
	}
	student, err := h.svc.CreateStudent(ctx.Request().Context(), in)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, StudentCreatedResponse{
		SuccessResponse: success("Aluno criado com sucesso!"),
		Student:         student,
	})
}

func (h classroomHandler) updateStudent(ctx echo.Context) error {
	id, err := pathID(ctx, "id", classroom.ErrStudentNotFound)
	if err != nil {
		return err
	}
	var in classroom.StudentInput
	if err := bindBody(ctx, &in); err != nil {
		return err
	}
	if err := in.Validate(h.validate); err != nil {
		return err
	}
	if err := h.svc.UpdateStudent(ctx.Request().Context(), id, in); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, success("Dados do aluno atualizados!"))
}
