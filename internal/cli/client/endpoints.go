package client

const (
	// Authentication endpoints (public)
	endpointLogin    = "/auth/login"
	endpointRegister = "/auth/register"

	// Patient endpoints
	endpointPatientDetails = "/patients/me/details/" // POST - complete profile

	// Pre-triage endpoints
	endpointPreTriage     = "/pre-triage/"      // POST - create from collected symptoms
	endpointPreTriageChat = "/pre-triage/chat/" // POST - free-text AI triage
)
