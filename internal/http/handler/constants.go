package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgInvalidCredentials      = "invalid credentials"
	msgEmailAlreadyExists      = "email already exists"
	msgUsernameAlreadyExists   = "username already exists"
	msgPasswordProcessFail     = "failed to process password"
	msgCreateAccountFail       = "failed to create account"
	msgGenerateTokenFail       = "failed to generate token"
	msgSignupSuccess           = "account created successfully"
	msgLoginSuccess            = "login successful"
	msgInvalidRole             = "invalid role"
	msgMissingFields           = "username, email, password and role are required"
	msgInvalidOAuthState       = "invalid oauth state"
	msgFederatedLoginFail      = "federated login failed"
	msgFederatedLoginSuccess   = "federated login successful"
	msgUserNotFound            = "user not found"
	msgCourseNotFound          = "course not found"
	msgInvalidCourseID         = "invalid course id"
	msgCourseTitleRequired     = "course title is required"
	msgCreateCourseFail        = "failed to create course"
	msgCourseDeleted           = "course deleted"
)
