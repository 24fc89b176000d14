package i18n

// Message keys
const (
	MsgInvalidBody         = "invalid_body"
	MsgValidationFailed    = "validation_failed"
	MsgInternal            = "internal"
	MsgAuthHeaderRequired  = "auth_header_required"
	MsgInvalidToken        = "invalid_token"
	MsgTokenRevoked        = "token_revoked"
	MsgForbidden           = "forbidden"
	MsgInvalidCredentials  = "invalid_credentials"
	MsgPhoneTaken          = "phone_taken"
	MsgSignedUp            = "signed_up"
	MsgSignedIn            = "signed_in"
	MsgSignedOut           = "signed_out"
	MsgTokenRefreshed      = "token_refreshed"
	MsgSessionLoaded       = "session_loaded"
	MsgProfileNotFound     = "profile_not_found"
	MsgProfileCompleted    = "profile_completed"
	MsgMedicamentRequired  = "medicament_required"
	MsgDemandeCreated      = "demande_created"
	MsgDemandeCreateFailed = "demande_create_failed"
	MsgDemandesLoaded      = "demandes_loaded"
	MsgDemandesLoadFailed  = "demandes_load_failed"
	MsgDemandeNotFound     = "demande_not_found"
	MsgInvalidID           = "invalid_id"
	MsgInvalidStatus       = "invalid_status"
	MsgDemandePickedUp     = "demande_picked_up"
	MsgPickupFailed        = "pickup_failed"
	MsgAlreadyClaimed      = "already_claimed"
	MsgNoValidPropositions = "no_valid_propositions"
	MsgAlreadyTreated      = "already_treated"
	MsgPropositionsSent    = "propositions_sent"
	MsgCompleteFailed      = "complete_failed"
	MsgPharmaciesLoaded    = "pharmacies_loaded"
	MsgNoPharmacySelected  = "no_pharmacy_selected"
	MsgUnknownPharmacies   = "unknown_pharmacies"
	MsgWeekAlreadyDefined  = "week_already_defined"
	MsgGardesDefined       = "gardes_defined"
	MsgGardesDefineFailed  = "gardes_define_failed"
	MsgGardesLoaded        = "gardes_loaded"
	MsgGardesLoadFailed    = "gardes_load_failed"
	MsgNoGardesForWeek     = "no_gardes_for_week"
	MsgGardesDeleted       = "gardes_deleted"
	MsgGardesDeleteFailed  = "gardes_delete_failed"
	MsgInvalidWeek         = "invalid_week"
	MsgAuditLogsLoaded     = "audit_logs_loaded"
	MsgAuditLogNotFound    = "audit_log_not_found"
	MsgRequired            = "required"
)

var catalog = map[string]map[string]string{
	LangFR: {
		MsgInvalidBody:         "Corps de requête invalide",
		MsgValidationFailed:    "Validation échouée",
		MsgInternal:            "Erreur interne du serveur",
		MsgAuthHeaderRequired:  "L'en-tête Authorization est requis",
		MsgInvalidToken:        "Jeton invalide ou expiré",
		MsgTokenRevoked:        "Le jeton a été révoqué",
		MsgForbidden:           "Vous n'avez pas accès à cette ressource",
		MsgInvalidCredentials:  "Numéro ou mot de passe incorrect",
		MsgPhoneTaken:          "Ce numéro est déjà utilisé",
		MsgSignedUp:            "Inscription réussie",
		MsgSignedIn:            "Connexion réussie",
		MsgSignedOut:           "Déconnexion réussie",
		MsgTokenRefreshed:      "Jeton renouvelé",
		MsgSessionLoaded:       "Session chargée",
		MsgProfileNotFound:     "Profil introuvable",
		MsgProfileCompleted:    "Profil mis à jour",
		MsgMedicamentRequired:  "Le nom du médicament est requis",
		MsgDemandeCreated:      "Demande envoyée",
		MsgDemandeCreateFailed: "Impossible d'envoyer la demande",
		MsgDemandesLoaded:      "Demandes chargées",
		MsgDemandesLoadFailed:  "Impossible de charger les demandes",
		MsgDemandeNotFound:     "Demande introuvable",
		MsgInvalidID:           "Identifiant invalide",
		MsgInvalidStatus:       "Statut invalide",
		MsgDemandePickedUp:     "Demande prise en charge",
		MsgPickupFailed:        "Impossible de prendre en charge la demande",
		MsgAlreadyClaimed:      "Cette demande est déjà prise en charge",
		MsgNoValidPropositions: "Ajoutez au moins une proposition valide",
		MsgAlreadyTreated:      "Cette demande est déjà traitée",
		MsgPropositionsSent:    "Propositions envoyées",
		MsgCompleteFailed:      "Impossible d'envoyer les propositions",
		MsgPharmaciesLoaded:    "Pharmacies chargées",
		MsgNoPharmacySelected:  "Sélectionnez au moins une pharmacie",
		MsgUnknownPharmacies:   "Pharmacie inconnue ou inactive",
		MsgWeekAlreadyDefined:  "Des pharmacies de garde existent déjà pour cette semaine",
		MsgGardesDefined:       "Pharmacies de garde enregistrées",
		MsgGardesDefineFailed:  "Impossible d'enregistrer les pharmacies de garde",
		MsgGardesLoaded:        "Pharmacies de garde chargées",
		MsgGardesLoadFailed:    "Impossible de charger les pharmacies de garde",
		MsgNoGardesForWeek:     "Aucune pharmacie de garde à supprimer",
		MsgGardesDeleted:       "Pharmacies de garde supprimées",
		MsgGardesDeleteFailed:  "Impossible de supprimer les pharmacies de garde",
		MsgInvalidWeek:         "Semaine invalide",
		MsgAuditLogsLoaded:     "Journal chargé",
		MsgAuditLogNotFound:    "Entrée de journal introuvable",
		MsgRequired:            "Requis",
	},
	LangEN: {
		MsgInvalidBody:         "Invalid request body",
		MsgValidationFailed:    "Validation failed",
		MsgInternal:            "Internal server error",
		MsgAuthHeaderRequired:  "Authorization header is required",
		MsgInvalidToken:        "Invalid or expired token",
		MsgTokenRevoked:        "Token has been revoked",
		MsgForbidden:           "You don't have permission to access this resource",
		MsgInvalidCredentials:  "Invalid phone or password",
		MsgPhoneTaken:          "Phone number already registered",
		MsgSignedUp:            "Signed up successfully",
		MsgSignedIn:            "Signed in successfully",
		MsgSignedOut:           "Signed out successfully",
		MsgTokenRefreshed:      "Token refreshed successfully",
		MsgSessionLoaded:       "Session retrieved successfully",
		MsgProfileNotFound:     "Profile not found",
		MsgProfileCompleted:    "Profile updated successfully",
		MsgMedicamentRequired:  "Medication name is required",
		MsgDemandeCreated:      "Request sent",
		MsgDemandeCreateFailed: "Failed to send request",
		MsgDemandesLoaded:      "Requests retrieved successfully",
		MsgDemandesLoadFailed:  "Failed to load requests",
		MsgDemandeNotFound:     "Request not found",
		MsgInvalidID:           "Invalid ID",
		MsgInvalidStatus:       "Invalid status",
		MsgDemandePickedUp:     "Request picked up",
		MsgPickupFailed:        "Failed to pick up request",
		MsgAlreadyClaimed:      "Request already claimed by another agent",
		MsgNoValidPropositions: "Add at least one valid offer",
		MsgAlreadyTreated:      "Request already treated",
		MsgPropositionsSent:    "Offers sent",
		MsgCompleteFailed:      "Failed to send offers",
		MsgPharmaciesLoaded:    "Pharmacies retrieved successfully",
		MsgNoPharmacySelected:  "Select at least one pharmacy",
		MsgUnknownPharmacies:   "Unknown or inactive pharmacy",
		MsgWeekAlreadyDefined:  "On-duty pharmacies already exist for this week",
		MsgGardesDefined:       "On-duty pharmacies saved",
		MsgGardesDefineFailed:  "Failed to save on-duty pharmacies",
		MsgGardesLoaded:        "On-duty pharmacies retrieved successfully",
		MsgGardesLoadFailed:    "Failed to load on-duty pharmacies",
		MsgNoGardesForWeek:     "No on-duty pharmacies to delete",
		MsgGardesDeleted:       "On-duty pharmacies deleted",
		MsgGardesDeleteFailed:  "Failed to delete on-duty pharmacies",
		MsgInvalidWeek:         "Invalid week",
		MsgAuditLogsLoaded:     "Audit logs retrieved successfully",
		MsgAuditLogNotFound:    "Audit log not found",
		MsgRequired:            "Required",
	},
}
