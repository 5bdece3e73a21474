package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		// Registration errors
		CodeMalformedRequest:      "Não foi possível entender a requisição",
		CodeEmailInvalid:          "Informe um endereço de email válido",
		CodeEmailDomainNotAllowed: "Use seu email {{.Domain}}",
		CodeOTPFormatInvalid:      "O código de verificação deve ter {{.Length}} dígitos",
		CodeOTPRejected:           "Esse código não confere, verifique e tente novamente",
		CodeChallengeMissing:      "Solicite um código de verificação primeiro",
		CodeChallengeExpired:      "Esse código de verificação expirou, solicite um novo",
		CodeResendCooldownActive:  "Aguarde {{.Seconds}} segundos antes de solicitar outro código",
		CodeAlreadyVerified:       "Este dispositivo já está registrado",
		CodeVerifyInProgress:      "Uma verificação já está em andamento",

		// Team errors
		CodeTeamIDInvalid:      "Esse código de equipe não é válido",
		CodeMemberEmailEmpty:   "O email do membro não pode ficar vazio",
		CodeRosterAccessDenied: "Você só pode ver a sua própria equipe",

		// Waitlist errors
		CodeWaitlistAlreadyJoined: "Você já está na lista de espera",
		CodeWaitlistUnavailable:   "A lista de espera está indisponível no momento, tente novamente mais tarde",

		// Storage errors
		CodeNotFound:      "O recurso solicitado não foi encontrado",
		CodeAlreadyExists: "Esse registro já existe",

		// Transport errors
		CodeRateLimited: "Muitas requisições, diminua o ritmo",

		CodeUnknown: "Algo deu errado, tente novamente mais tarde",
	},
}
