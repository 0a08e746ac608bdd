package telegram

const (
	msgWelcome = "<b>Ahlan wa sahlan, %s!</b>\n\n" +
		"Learn Arabic one lesson at a time.\n\n" +
		"/next — continue where you left off\n" +
		"/path — see your learning path\n" +
		"/progress — level, streak and badges\n" +
		"/shop — hearts and premium\n" +
		"/settings — sound and music\n" +
		"/recommend — ask Noura what to study\n" +
		"/register email — save your progress under an email\n" +
		"/login email — restore a saved session\n" +
		"/logout — end this session"

	msgUnknownCommand   = "Unknown command. Send /start to see what I can do."
	msgInternalError    = "Something went wrong. Please try again later."
	msgLessonLocked     = "🔒 This lesson is still locked. Finish the previous one first, or earn more XP to open the next level."
	msgLessonNotFound   = "This lesson does not exist."
	msgNoHearts         = "💔 You are out of hearts. Refill them in the /shop or go premium."
	msgNotEnoughGems    = "💎 Not enough gems for this."
	msgHeartsFull       = "❤️ Your hearts are already full."
	msgAlreadyPremium   = "⭐ You are already premium."
	msgInvalidEmail     = "Please send a valid email, for example: /register amina@example.com"
	msgEmptyName        = "Please add a name, for example: /name Amina"
	msgLoginFailed      = "No saved session matches this email."
	msgNoSession        = "No active session. Send /start."
	msgLoggedOut        = "👋 Session closed. Send /start to begin again."
	msgPathDone         = "🏁 You have finished every lesson available to you. Earn more XP or wait for new content."
	msgNoLessonRunning  = "No lesson in progress. Send /next to start one."
	msgStaleAnswer      = "This question is already answered."
	msgTypeAnswer       = "✍️ Type your answer."
	msgSpeakAnswer      = "🎙 Send a voice message saying the phrase."
	msgNoRecommendation = "Noura has no suggestion right now. Keep going with /next!"
	msgVoiceUnavailable = "Could not read the voice message. Please try again."
)
